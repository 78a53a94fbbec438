package queue

const (
	TypeCatalogIngest = "catalog:ingest"
)

type CatalogIngestPayload struct {
	Path     string `json:"path"`
	Category string `json:"category,omitempty"`
}
