package provider

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ScenarioPrefixEnv gates scenario recording: when set, its value is used as
// the filename prefix of a fresh recording.
const ScenarioPrefixEnv = "DEVNODE_SCENARIO_PREFIX"

// ScenarioRecorder appends every inbound request to a jsonl file so a
// session can be replayed offline. Line one is the serialized provider
// configuration; each subsequent line is one request.
type ScenarioRecorder struct {
	mu   sync.Mutex
	file *os.File
}

// NewScenarioRecorder opens a recording if ScenarioPrefixEnv is set and
// writes the config header line. Returns (nil, nil) when recording is
// disabled.
func NewScenarioRecorder(config *Config) (*ScenarioRecorder, error) {
	prefix := os.Getenv(ScenarioPrefixEnv)
	if prefix == "" {
		return nil, nil
	}

	name := fmt.Sprintf("%s-%s-%s.jsonl",
		prefix,
		time.Now().UTC().Format("20060102-150405"),
		uuid.NewString()[:8])

	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scenario file")
	}

	recorder := &ScenarioRecorder{file: file}
	if err := recorder.writeLine(config); err != nil {
		file.Close()
		return nil, err
	}

	log.Info("Recording provider scenario", "file", name)
	return recorder, nil
}

// Record appends one request line.
func (r *ScenarioRecorder) Record(req Request) error {
	return r.writeLine(req)
}

func (r *ScenarioRecorder) writeLine(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to serialize scenario line")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.file.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "failed to write scenario file")
	}
	return nil
}

// Name returns the path of the recording.
func (r *ScenarioRecorder) Name() string {
	return r.file.Name()
}

func (r *ScenarioRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
