package repository

import (
	"context"

	"expediente-service/internal/domain/entity"
)

// DossierRepository defines the interface for fetching operator dossiers
type DossierRepository interface {
	FetchExpediente(ctx context.Context, collaboratorID, startDate, endDate string) (*entity.OperatorDossier, error)
}
