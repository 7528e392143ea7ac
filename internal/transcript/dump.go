package transcript

import (
	"encoding/json"
	"os"

	"github.com/pranavbn/interview-agent/internal/interview"
)

// Export is the JSON document written for a finished interview.
type Export struct {
	Session interview.SessionInfo `json:"session"`
	Records []Record              `json:"records"`
}

// DumpToTmpFile writes the transcript to a temporary JSON file and returns
// its name.
func DumpToTmpFile(info interview.SessionInfo, records []Record) (string, error) {
	file, err := os.CreateTemp("", "interview_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export{Session: info, Records: records}); err != nil {
		return "", err
	}
	return file.Name(), nil
}
