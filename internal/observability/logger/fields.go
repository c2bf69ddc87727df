package logger

import (
	"time"

	"go.uber.org/zap"
)

// ─── Campos estándar: HTTP ───

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// ─── Campos estándar: negocio ───

// DeliveryID crea un campo para el ID de un intento de entrega.
func DeliveryID(v string) zap.Field {
	return zap.String("delivery_id", v)
}

// EventID crea un campo para el ID del evento de pago.
func EventID(v string) zap.Field {
	return zap.String("event_id", v)
}

// EventType crea un campo para el tipo del evento de pago.
func EventType(v string) zap.Field {
	return zap.String("event_type", v)
}

// Email crea un campo para el email del pagador (usar con cuidado en prod).
func Email(v string) zap.Field {
	return zap.String("email", v)
}

// CodeID crea un campo para el ID externo de un access code.
func CodeID(v string) zap.Field {
	return zap.String("code_id", v)
}

// Provider crea un campo para el proveedor de email.
func Provider(v string) zap.Field {
	return zap.String("provider", v)
}

// Backend crea un campo para el backend del codes store.
func Backend(v string) zap.Field {
	return zap.String("backend", v)
}

// ─── Campos estándar: sistema ───

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field {
	return zap.Int(key, v)
}

// Bool crea un campo bool genérico.
func Bool(key string, v bool) zap.Field {
	return zap.Bool(key, v)
}

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}
