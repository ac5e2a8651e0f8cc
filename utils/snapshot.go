package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// SnapshotDebugger dumps rendered page HTML so a failing extraction can be
// inspected offline. A debugger with an empty output dir is disabled and
// silently drops every snapshot.
type SnapshotDebugger struct {
	outputDir string
}

func NewSnapshotDebugger(outputDir string) *SnapshotDebugger {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			log.Printf("⚠️ Failed to create snapshot directory: %v", err)
			outputDir = ""
		}
	}
	return &SnapshotDebugger{
		outputDir: outputDir,
	}
}

func (s *SnapshotDebugger) Save(name, html string) error {
	if s.outputDir == "" {
		return nil
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.html", name, timestamp)
	path := filepath.Join(s.outputDir, filename)

	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		log.Printf("⚠️ Failed to save HTML snapshot: %v", err)
		return err
	}

	log.Printf("   Snapshot saved: %s", path)
	return nil
}
