package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Tokens
	ErrInvalidSigningMethod = fmt.Errorf("método de assinatura do token inválido")
	ErrInvalidToken         = fmt.Errorf("token inválido")
	ErrTokenExpired         = fmt.Errorf("token expirado")

	// Authorization
	ErrEmptyAuthHeader    = fmt.Errorf("cabeçalho Authorization ausente")
	ErrInvalidAuthHeader  = fmt.Errorf("formato do cabeçalho Authorization inválido")
	ErrUnauthorized       = fmt.Errorf("não autenticado")
	ErrInvalidCredentials = fmt.Errorf("usuário ou senha inválidos")
	ErrForbidden          = fmt.Errorf("acesso negado")

	ErrUserIDNotFoundInContext = fmt.Errorf("usuário não encontrado no contexto da requisição")

	// General
	ErrNotFound   = fmt.Errorf("registro não encontrado")
	ErrBadRequest = fmt.Errorf("requisição inválida")
	ErrConflict   = fmt.Errorf("registro já existe")

	// Checklist
	ErrChecklistNotConfigured = fmt.Errorf("o checklist está vazio, configure as seções e itens")
	ErrNoAnswers              = fmt.Errorf("nenhum item do checklist foi respondido")
	ErrInvalidAnswer          = fmt.Errorf("resposta inválida para o item")
	ErrItemNotEditable        = fmt.Errorf("item preenchido automaticamente não pode ser editado")
	ErrServiceFinalized       = fmt.Errorf("serviço já finalizado")

	// Report pipeline
	ErrRenderFailed  = fmt.Errorf("falha ao gerar o PDF")
	ErrStorageFailed = fmt.Errorf("falha ao armazenar o PDF")
	ErrNoReport      = fmt.Errorf("serviço ainda não possui relatório")
	ErrObjectMissing = fmt.Errorf("arquivo não encontrado no armazenamento")
)

// HttpError carries the status code and the user-facing message alongside
// the internal error that is only logged.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// LinkError means the artifact was stored but pdf_url could not be written.
// Handle can be fed back into the link-only retry.
type LinkError struct {
	Handle string
	Err    error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("relatório armazenado em %s mas não vinculado ao serviço: %v", e.Handle, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

var statusTable = []struct {
	err  error
	code int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrNoReport, http.StatusNotFound},
	{ErrObjectMissing, http.StatusNotFound},
	{ErrBadRequest, http.StatusBadRequest},
	{ErrInvalidAnswer, http.StatusBadRequest},
	{ErrItemNotEditable, http.StatusBadRequest},
	{ErrChecklistNotConfigured, http.StatusUnprocessableEntity},
	{ErrNoAnswers, http.StatusUnprocessableEntity},
	{ErrServiceFinalized, http.StatusConflict},
	{ErrConflict, http.StatusConflict},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrEmptyAuthHeader, http.StatusUnauthorized},
	{ErrInvalidAuthHeader, http.StatusUnauthorized},
	{ErrInvalidToken, http.StatusUnauthorized},
	{ErrTokenExpired, http.StatusUnauthorized},
	{ErrInvalidSigningMethod, http.StatusUnauthorized},
	{ErrUserIDNotFoundInContext, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrStorageFailed, http.StatusBadGateway},
	{ErrRenderFailed, http.StatusInternalServerError},
}

// StatusFor maps a domain error to an HTTP status. ok is false for errors
// that are not part of the table.
func StatusFor(err error) (code int, ok bool) {
	var invalid *InvalidInputError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, true
	}
	var linkErr *LinkError
	if errors.As(err, &linkErr) {
		return http.StatusInternalServerError, true
	}
	for _, entry := range statusTable {
		if errors.Is(err, entry.err) {
			return entry.code, true
		}
	}
	return 0, false
}
