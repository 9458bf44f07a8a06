package db

import (
	"context"
)

// TaxiRecord is the persisted travel state of one character.
type TaxiRecord struct {
	// KnownMask is the knowledge bitmask, taxi.MaskSize bytes.
	KnownMask []byte
	// Route is the saved journey, "" when the character was not flying.
	Route     string
	Benchmark bool
}

// TaxiRepository хранит маску известных точек и сохранённый маршрут.
// Реализации: PostgresTaxiRepository и SQLiteTaxiRepository.
type TaxiRepository interface {
	// LoadTaxi возвращает nil, nil если записи нет.
	LoadTaxi(ctx context.Context, characterID int64) (*TaxiRecord, error)
	// SaveTaxi перезаписывает запись целиком.
	SaveTaxi(ctx context.Context, characterID int64, rec TaxiRecord) error
}
