// Package protocol maps message types to their collections and formats the
// human-readable ticket identifiers stamped on every submission.
package protocol

import (
	"fmt"
	"regexp"

	"pontotaxi/backend/internal/models"
)

// DefaultCollection receives messages whose declared type is not a known
// enum value.
const DefaultCollection = "informacoes"

var collections = map[string]string{
	models.TypeComplaint:   "reclamacoes",
	models.TypePraise:      "elogios",
	models.TypeQuestion:    "duvidas",
	models.TypeSuggestion:  "sugestoes",
	models.TypeInformation: "informacoes",
}

var prefixes = map[string]string{
	models.TypeComplaint:   "REC",
	models.TypePraise:      "ELO",
	models.TypeQuestion:    "DUV",
	models.TypeSuggestion:  "SUG",
	models.TypeInformation: "INF",
}

// Pattern matches any protocol this service generates.
var Pattern = regexp.MustCompile(`^[A-Z]{3}-\d{5}-\d{4}$`)

// Normalize returns the canonical type for a declared type, falling back to
// information for anything unrecognized.
func Normalize(messageType string) string {
	if _, ok := collections[messageType]; ok {
		return messageType
	}
	return models.TypeInformation
}

// Known reports whether messageType is a recognized enum value.
func Known(messageType string) bool {
	_, ok := collections[messageType]
	return ok
}

// CollectionFor returns the active collection for a message type.
func CollectionFor(messageType string) string {
	if c, ok := collections[messageType]; ok {
		return c
	}
	return DefaultCollection
}

// ArchiveFor returns the archival collection for a message type.
func ArchiveFor(messageType string) string {
	return CollectionFor(messageType) + "_arquivadas"
}

// PrefixFor returns the three-letter protocol prefix for a message type.
func PrefixFor(messageType string) string {
	if p, ok := prefixes[messageType]; ok {
		return p
	}
	return prefixes[models.TypeInformation]
}

// Format builds the protocol string for the seq-th message of a type in a
// year, e.g. Format("reclamacao", 1, 2026) == "REC-00001-2026".
func Format(messageType string, seq int64, year int) string {
	return fmt.Sprintf("%s-%05d-%d", PrefixFor(messageType), seq, year)
}

// Collections lists every active collection, in a stable order. The
// dashboard fans out one read per entry.
func Collections() []string {
	return []string{"reclamacoes", "elogios", "duvidas", "sugestoes", "informacoes"}
}

// Types lists the recognized message types in the same order as Collections.
func Types() []string {
	return []string{
		models.TypeComplaint,
		models.TypePraise,
		models.TypeQuestion,
		models.TypeSuggestion,
		models.TypeInformation,
	}
}
