// Экспорт результатов выборок в S3-совместимое хранилище.

package s3storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ilkoid/plenty-api/pkg/config"
)

// objectAPI - часть *minio.Client, которой пользуется экспорт.
// Позволяет подменять хранилище в тестах.
type objectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// Exporter определяет интерфейс экспорта.
// Используется для мокания в тестах и внедрения зависимостей.
type Exporter interface {
	Upload(ctx context.Context, name string, v any) (string, error)
}

type Client struct {
	api    objectAPI
	bucket string
	prefix string
	runID  string
}

// Проверка что Client реализует Exporter
var _ Exporter = (*Client)(nil)

// StoredObject - объект экспорта в S3
type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// New создает клиент, используя наш конфиг
func New(cfg config.S3Config, runID string) (*Client, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("s3 export is not configured: endpoint and bucket are required")
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	return newClient(minioClient, cfg.Bucket, cfg.Prefix, runID), nil
}

func newClient(api objectAPI, bucket, prefix, runID string) *Client {
	return &Client{
		api:    api,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		runID:  runID,
	}
}

// ObjectKey строит ключ объекта: <prefix>/<name>-<runID>.json.
// Пустые prefix и runID опускаются.
func ObjectKey(prefix, name, runID string) string {
	file := name
	if runID != "" {
		file += "-" + runID
	}
	file += ".json"

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return file
	}
	return path.Join(prefix, file)
}

// Upload сериализует v в JSON и кладёт в бакет. Возвращает ключ объекта.
func (c *Client) Upload(ctx context.Context, name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export %s: %w", name, err)
	}

	key := ObjectKey(c.prefix, name, c.runID)
	_, err = c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return key, nil
}

// ListExports возвращает все объекты под префиксом экспорта.
func (c *Client) ListExports(ctx context.Context) ([]StoredObject, error) {
	prefix := c.prefix
	// Нормализация префикса (добавляем слеш, если это "папка")
	if prefix != "" {
		prefix += "/"
	}

	var objects []StoredObject
	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	for obj := range c.api.ListObjects(ctx, c.bucket, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		objects = append(objects, StoredObject{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return objects, nil
}

// Download скачивает объект целиком в память
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, obj); err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return buf.Bytes(), nil
}
