package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/projsim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	States []StateRow `json:"states"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, states []dynamo.State) error {
	data := ExportData{States: ToRows(states)}
	if meta != nil {
		data.RunMetadata = *meta
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, meta *RunMetadata, states []dynamo.State) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, meta, states)
}
