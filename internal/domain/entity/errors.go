package entity

import "errors"

var (
	// ErrModelUnavailable модель не загружена, повтор без перезагрузки бессмысленен
	ErrModelUnavailable = errors.New("classification model unavailable")
	// ErrInferenceFailed ошибка вызова модели, можно повторить с тем же или новым фото
	ErrInferenceFailed = errors.New("inference failed")
	// ErrEmptyClassification после фильтрации не осталось ни одной метки
	ErrEmptyClassification = errors.New("unable to classify image")
	// ErrInvalidRequest не заполнено обязательное поле запроса
	ErrInvalidRequest = errors.New("invalid analysis request")
)
