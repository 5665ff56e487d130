package service

import (
	"testing"

	"github.com/forxynet/DevConnector/config"
	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/forxynet/DevConnector/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// TestUserRegister 测试用户注册功能
func TestUserRegister(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	user := &model.User{
		Username:     "testuser",
		Email:        "Test@Example.com",
		PasswordHash: "password123",
	}

	// 测试成功注册
	mockRepo.On("FindByUsername", "testuser").Return(nil, nil)
	mockRepo.On("FindByEmail", "Test@Example.com").Return(nil, nil)
	mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

	err := service.Register(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.Contains(t, user.AvatarURL, "gravatar.com/avatar/")
	mockRepo.AssertExpectations(t)

	// 测试用户名已存在
	mockRepo.On("FindByUsername", "existinguser").Return(&model.User{}, nil)
	user.Username = "existinguser"
	err = service.Register(user)
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUserExists))

	// 测试邮箱已被其他账号使用
	mockRepo.On("FindByUsername", "newuser").Return(nil, nil)
	mockRepo.On("FindByEmail", "taken@example.com").Return(&model.User{}, nil)
	user.Username = "newuser"
	user.Email = "taken@example.com"
	err = service.Register(user)
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUserExists))
}

// TestUserLogin 测试用户登录功能
func TestUserLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mockRepo.On("FindByEmail", "test@example.com").Return(&model.User{
		ID:           "user-1",
		Email:        "test@example.com",
		PasswordHash: string(hashed),
	}, nil)

	user, err := service.Login("test@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	// 密码错误
	_, err = service.Login("test@example.com", "wrongpassword")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidCredentials))

	// 用户不存在
	mockRepo.On("FindByEmail", "ghost@example.com").Return(nil, nil)
	_, err = service.Login("ghost@example.com", "password123")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidCredentials))
}

// TestGetUserByID 测试按ID查询用户
func TestGetUserByID(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	mockRepo.On("FindByID", "user-1").Return(&model.User{ID: "user-1"}, nil)
	user, err := service.GetUserByID("user-1")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	mockRepo.On("FindByID", "ghost").Return(nil, nil)
	_, err = service.GetUserByID("ghost")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUserNotFound))
}

// TestUpdateAvatar 测试更新头像地址
func TestUpdateAvatar(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	mockRepo.On("FindByID", "user-1").Return(&model.User{ID: "user-1"}, nil)
	mockRepo.On("Update", mock.AnythingOfType("*model.User")).Return(nil)

	err := service.UpdateAvatar("user-1", "avatars/user-1/a.png")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestLogoutBlacklistsToken 测试注销后令牌进入黑名单
func TestLogoutBlacklistsToken(t *testing.T) {
	config.AppConfig = config.Config{JWTSecret: "test-secret"}

	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	assert.False(t, service.IsTokenBlacklisted("unknown-token"))

	err := service.Logout("user-1")
	assert.NoError(t, err)

	// 注销时生成的令牌应在黑名单中
	service.blacklistMutex.RLock()
	assert.Len(t, service.tokenBlacklist, 1)
	var token string
	for k := range service.tokenBlacklist {
		token = k
	}
	service.blacklistMutex.RUnlock()
	assert.True(t, service.IsTokenBlacklisted(token))
}
