package port

import "context"

// BlobStore интерфейс хранилища сериализованных данных по ключу
type BlobStore interface {
	// Load возвращает данные по ключу, found=false если ключа нет
	Load(ctx context.Context, key string) (data []byte, found bool, err error)

	// Save перезаписывает данные по ключу
	Save(ctx context.Context, key string, data []byte) error
}
