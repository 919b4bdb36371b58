// internal/domain/entity/errors.go
package entity

// ValidationError is a user-facing precondition failure: the operation is
// aborted, no artifact is written, and the message is shown as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Sentinel validation failures. Callers match them with errors.Is.
var (
	ErrNoExportFields = &ValidationError{Message: "Selecciona al menos un campo para exportar."}
	ErrNoExportRows   = &ValidationError{Message: "No hay registros para exportar con los filtros seleccionados."}
	ErrNoDayTokens    = &ValidationError{Message: "Ingresa al menos una fecha (ej: 2025-10-25,2025-11-11)."}
	ErrNoEvidenceRows = &ValidationError{Message: "No hay registros en las fechas seleccionadas."}
	ErrNoCollaborator = &ValidationError{Message: "Debes ingresar un numero de colaborador"}
)
