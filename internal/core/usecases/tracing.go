package usecases

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("github.com/kamertour/kamertour/internal/core/usecases")
