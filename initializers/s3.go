package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	s3client "pm-tools-backend/s3"
)

func InitS3() {
	err := s3client.Connect()
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}

	// Проверка соединения
	_, err = s3client.Client.ListBuckets(context.Background())
	if err != nil {
		log.WithError(err).Error("Не удалось проверить соединение с S3")
		return
	}
	log.Info("S3 клиент успешно инициализирован")
}
