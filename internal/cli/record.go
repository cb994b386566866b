package cli

import (
	"errors"
	"strings"
	"time"
)

// RecordKey identifies a record by namespace and name.
type RecordKey struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// String returns "namespace/name".
func (k RecordKey) String() string {
	return k.Namespace + "/" + k.Name
}

// RecordState is the value stored for each record.
type RecordState struct {
	Value     string    `json:"value"`
	Flag      bool      `json:"flag"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// recordView is the JSON and table form of one record.
type recordView struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	RecordState
}

func parseKey(args []string) (RecordKey, error) {
	key := RecordKey{
		Namespace: strings.TrimSpace(args[0]),
		Name:      strings.TrimSpace(args[1]),
	}
	if key.Namespace == "" {
		return key, errors.New("namespace must not be empty")
	}
	if key.Name == "" {
		return key, errors.New("name must not be empty")
	}
	return key, nil
}

func newView(key RecordKey, state RecordState) recordView {
	return recordView{
		Namespace:   key.Namespace,
		Name:        key.Name,
		RecordState: state,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
