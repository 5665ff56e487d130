package storage

import (
	"fmt"
	"mime/multipart"

	"github.com/forxynet/DevConnector/config"
)

// FileStorage 文件存储后端，目前用于用户头像上传
type FileStorage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}

// NewFromConfig 根据配置选择存储后端
func NewFromConfig(cfg *config.Config) (FileStorage, error) {
	switch cfg.StorageBackend {
	case "local":
		return NewLocalStorage(cfg.LocalStoragePath)
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(cfg.GCSProjectID, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("未知的存储后端: %s", cfg.StorageBackend)
	}
}
