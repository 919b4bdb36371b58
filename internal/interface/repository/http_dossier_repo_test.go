package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"expediente-service/pkg/logger"
)

const dossierPayload = `{
  "operador": {"nombre": "Ana", "apellidos": "Lopez", "noColaborador": "141", "estacion": "MEX"},
  "servicios": {
    "total": 1,
    "registros": [
      {"_id": "s1", "fechaInput": "2025-10-25", "noVuelo": "AM100",
       "encuesta": {"calificacion": "EXCELENTE"}, "sala": "B7"}
    ],
    "resumenPorDia": [{"fecha": "2025-10-25", "total": 1}]
  },
  "bitacora": {
    "total": 1,
    "registros": [{"_id": "b1", "entrada": "2025-10-25T08:00", "salida": "2025-10-25T17:30"}]
  },
  "amonestaciones": [{"_id": "a1", "sancion": "ACTA", "motivo": "retardo"}],
  "pulseras": [{"folio": "P-1"}]
}`

func TestFetchExpediente(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(dossierPayload))
	}))
	defer srv.Close()

	repo := NewHTTPDossierRepository(srv.URL, "secreto", 5*time.Second, logger.NewNopLogger())
	dossier, err := repo.FetchExpediente(context.Background(), "141", "2025-10-01", "2025-10-31")
	require.NoError(t, err)

	require.Equal(t, "/api/operadores/141/expediente", gotPath)
	require.Equal(t, "Bearer secreto", gotAuth)
	require.Equal(t, []string{"2025-10-01"}, gotQuery["fechaInicio"])
	require.Equal(t, []string{"2025-10-31"}, gotQuery["fechaFin"])

	require.Equal(t, "Ana Lopez", dossier.Operator.FullName())
	require.Len(t, dossier.Services.Records, 1)
	require.Equal(t, "AM100", dossier.Services.Records[0].FlightNumber)
	require.NotNil(t, dossier.Services.Records[0].Survey)
	require.Equal(t, "EXCELENTE", dossier.Services.Records[0].Survey.Rating)
	// Raw keeps fields outside the typed struct for field-driven export.
	require.Equal(t, "B7", dossier.Services.Records[0].Raw["sala"])
	require.Len(t, dossier.Log.Records, 1)
	require.Len(t, dossier.Reprimands, 1)
	require.Len(t, dossier.Bracelets, 1)
}

func TestFetchExpedienteOmitsEmptyParams(t *testing.T) {
	var gotRawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawQuery = r.URL.RawQuery
		w.Write([]byte(dossierPayload))
	}))
	defer srv.Close()

	repo := NewHTTPDossierRepository(srv.URL, "", 5*time.Second, logger.NewNopLogger())
	_, err := repo.FetchExpediente(context.Background(), "141", "", "")
	require.NoError(t, err)
	require.Empty(t, gotRawQuery)
}

func TestFetchExpedienteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "Operador no encontrado"}`))
	}))
	defer srv.Close()

	repo := NewHTTPDossierRepository(srv.URL, "", 5*time.Second, logger.NewNopLogger())
	_, err := repo.FetchExpediente(context.Background(), "999", "", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
	require.Contains(t, err.Error(), "Operador no encontrado")
}

func TestFetchExpedienteUpstreamErrorWithoutBody(t *testing.T) {
	// 501 is not retried by the transport, so the raw status reaches the
	// caller without the retry loop swallowing the response.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	}))
	defer srv.Close()

	repo := NewHTTPDossierRepository(srv.URL, "", 5*time.Second, logger.NewNopLogger())
	_, err := repo.FetchExpediente(context.Background(), "141", "", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "501")
	require.Contains(t, err.Error(), http.StatusText(http.StatusNotImplemented))
}

func TestFetchExpedienteBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"operador": "no-un-objeto"`))
	}))
	defer srv.Close()

	repo := NewHTTPDossierRepository(srv.URL, "", 5*time.Second, logger.NewNopLogger())
	_, err := repo.FetchExpediente(context.Background(), "141", "", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode expediente")
}
