package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ==================== 接口定义 ====================

// StorageProvider 存储提供者接口（feed 快照归档用）
type StorageProvider interface {
	// Upload 上传文件，返回存储位置标识
	Upload(ctx context.Context, data []byte, key string, contentType string) (location string, err error)
}

// ==================== 配置 ====================

// StorageConfig 归档存储配置
type StorageConfig struct {
	Provider  string // "s3" | "local"
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	BasePath  string // 键前缀
	LocalDir  string // local 模式的落盘目录
}

// ==================== 工厂方法 ====================

// NewStorageProvider 按配置构建存储提供者
func NewStorageProvider(cfg *StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return newS3Storage(cfg)
	case "local":
		return newLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// ==================== StorageService 归档服务 ====================

// StorageService 归档服务，包装 StorageProvider
type StorageService struct {
	provider StorageProvider
	basePath string
}

// NewStorageService 创建归档服务
func NewStorageService(cfg *StorageConfig) (*StorageService, error) {
	provider, err := NewStorageProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &StorageService{provider: provider, basePath: cfg.BasePath}, nil
}

// Upload 归档一份 feed 快照
func (s *StorageService) Upload(ctx context.Context, data []byte, key string, contentType string) (string, error) {
	if s.basePath != "" {
		key = s.basePath + "/" + key
	}
	return s.provider.Upload(ctx, data, key, contentType)
}

// ==================== S3 实现 ====================

type s3Storage struct {
	client *s3.Client
	bucket string
}

func newS3Storage(cfg *StorageConfig) (*s3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("加载 AWS 配置失败: %w", err)
	}
	return &s3Storage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
	}, nil
}

func (s *s3Storage) Upload(ctx context.Context, data []byte, key string, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传 S3 失败: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// ==================== 本地磁盘实现 ====================

type localStorage struct {
	dir string
}

func newLocalStorage(cfg *StorageConfig) (*localStorage, error) {
	dir := cfg.LocalDir
	if dir == "" {
		dir = "./data/feeds"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建归档目录失败: %w", err)
	}
	return &localStorage{dir: dir}, nil
}

func (s *localStorage) Upload(_ context.Context, data []byte, key string, _ string) (string, error) {
	// key 里的斜杠转成子目录
	path := filepath.Join(s.dir, filepath.FromSlash(strings.TrimPrefix(key, "/")))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
