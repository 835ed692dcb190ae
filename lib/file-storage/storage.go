package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"pm-tools-backend/config"
	dbmodels "pm-tools-backend/models/db"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Upload(ctx context.Context, spaceID, fileName, contentType string, data []byte) (fileID string, err error)
	GetFile(ctx context.Context, spaceID, fileID string) (data []byte, rec *dbmodels.FileRecord, err error)
	MakeSpaceBucket(ctx context.Context, spaceID string) error
}

var Instance Provider

func NewInstance(s3client *minio.Client, DB *gorm.DB) {
	Instance = &impl{
		s3client: s3client,
		db:       DB,
	}
}

type impl struct {
	s3client *minio.Client
	db       *gorm.DB
}

// Upload кладёт файл в бакет пространства и сохраняет метаданные.
// Идентификатором объекта служит id записи метаданных.
func (i impl) Upload(ctx context.Context, spaceID, fileName, contentType string, data []byte) (string, error) {
	if err := i.MakeSpaceBucket(ctx, spaceID); err != nil {
		return "", errors.Wrap(err, "ошибка создания бакета пространства")
	}
	rec := dbmodels.FileRecord{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{
				ID: uuid.New().String(),
			},
			SpaceID: spaceID,
		},
		Name:        fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
	}
	err := i.db.Create(&rec).Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения метаданных файла")
	}
	_, err = i.s3client.PutObject(ctx, i.getSpaceBucketName(spaceID), rec.ID,
		bytes.NewReader(data), rec.Size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки файла в хранилище")
	}
	return rec.ID, nil
}

func (i impl) GetFile(ctx context.Context, spaceID, fileID string) ([]byte, *dbmodels.FileRecord, error) {
	rec := dbmodels.FileRecord{}
	err := i.db.
		Where("id = ?", fileID).
		Where("space_id = ?", spaceID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	obj, err := i.s3client.GetObject(ctx, i.getSpaceBucketName(spaceID), fileID, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка чтения файла из хранилища")
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка чтения файла из хранилища")
	}
	return data, &rec, nil
}

func (i impl) MakeSpaceBucket(ctx context.Context, spaceID string) error {
	bucketName := i.getSpaceBucketName(spaceID)
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
}

func (i impl) getSpaceBucketName(spaceID string) string {
	return fmt.Sprintf("%s-%s", config.Conf.S3.BucketName, spaceID)
}
