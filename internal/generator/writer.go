package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vanshika/netpath/internal/repository"
)

// WriteDataset serializes the dataset into nodes.csv and edges.csv under the
// provided directory and returns the two paths.
func WriteDataset(dataset Dataset, dir string) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	nodesPath := filepath.Join(dir, "nodes.csv")
	if err := writeFile(nodesPath, func(w io.Writer) error {
		return repository.WriteNodesCSV(w, dataset.Nodes)
	}); err != nil {
		return "", "", err
	}

	edgesPath := filepath.Join(dir, "edges.csv")
	if err := writeFile(edgesPath, func(w io.Writer) error {
		return repository.WriteEdgesCSV(w, dataset.Edges)
	}); err != nil {
		return "", "", err
	}

	return nodesPath, edgesPath, nil
}

func writeFile(path string, encode func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if err := encode(file); err != nil {
		file.Close()
		return fmt.Errorf("encode csv for %s: %w", path, err)
	}
	return file.Close()
}
