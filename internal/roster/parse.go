package roster

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidSnapshot indicates extractor input that does not conform to the
// snapshot document schema. Rejected before any state is touched.
var ErrInvalidSnapshot = errors.New("invalid snapshot document")

//go:embed schema.json
var snapshotSchema []byte

// maxReportedViolations bounds the number of schema violations echoed in an
// error message.
const maxReportedViolations = 5

// ParseSnapshot validates and decodes one extractor snapshot document.
// Schema violations surface as ErrInvalidSnapshot listing the offending
// fields.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(snapshotSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	if !result.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSnapshot, describeViolations(result.Errors()))
	}

	var snap Snapshot

	err = json.Unmarshal(data, &snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	if snap.Inventories == nil {
		snap.Inventories = make(map[string]Inventory)
	}

	return &snap, nil
}

func describeViolations(violations []gojsonschema.ResultError) string {
	var b strings.Builder

	for i, v := range violations {
		if i == maxReportedViolations {
			fmt.Fprintf(&b, "; and %d more", len(violations)-i)

			break
		}

		if i > 0 {
			b.WriteString("; ")
		}

		fmt.Fprintf(&b, "%s: %s", v.Field(), v.Description())
	}

	return b.String()
}
