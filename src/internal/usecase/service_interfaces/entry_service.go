package service_interfaces

import (
	"context"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/http/models"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/commons"
)

type EntryService interface {
	CreateEntry(ctx context.Context, req models.CreateEntryRequest) (commons.Response[models.CreateEntryResponse], error)
	GetNextEntryNumber(ctx context.Context, date string) (commons.Response[models.NextEntryNumberResponse], error)
}

type EntryQueryService interface {
	GetEntries(ctx context.Context, req models.GetEntriesRequest) (commons.Response[models.GetEntriesResponse], error)
}
