package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"legalextract/internal/csvexport"
	"legalextract/internal/domain"
	"legalextract/internal/service"
	"legalextract/internal/tabular"
)

// buildRequests turns file arguments into requests. Text is used only when
// no file is given.
func buildRequests(files []string, text string) []domain.ExtractionRequest {
	if len(files) == 0 {
		return []domain.ExtractionRequest{domain.NewTextRequest(text)}
	}
	reqs := make([]domain.ExtractionRequest, 0, len(files))
	for _, path := range files {
		reqs = append(reqs, domain.NewPDFPathRequest(filepath.Base(path), path))
	}
	return reqs
}

func extract(
	ctx context.Context,
	svc service.ExtractionService,
	reqs []domain.ExtractionRequest,
	outDir string,
	format csvexport.Format,
	stdout io.Writer,
) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	batch, err := svc.ExtractBatch(ctx, reqs)
	if batch == nil {
		return err
	}

	written := map[string]bool{}
	for i, doc := range batch.Documents {
		if doc.Table == nil {
			fmt.Fprintf(stdout, "%-40s %-16s %s\n", doc.Source, doc.Status, doc.Message)
			continue
		}

		name := csvexport.DocumentFilename(doc.Source, format)
		if reqs[i].IsText() {
			name = csvexport.TextFilename(format)
		}
		if written[name] {
			name = fmt.Sprintf("%03d_%s", i+1, name)
		}
		written[name] = true

		path, werr := writeTable(svc, doc.Table, outDir, name, format)
		if werr != nil {
			return werr
		}
		fmt.Fprintf(stdout, "%-40s %-16s %d rows -> %s\n", doc.Source, doc.Status, len(doc.Table.Rows), path)
	}

	if err != nil {
		return err
	}
	if batch.Combined == nil {
		return errors.New(service.NoDataMessage)
	}

	path, err := writeTable(svc, batch.Combined, outDir, csvexport.CombinedFilename(format), format)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "combined: %d of %d documents, %d rows -> %s\n",
		batch.Succeeded, len(batch.Documents), len(batch.Combined.Rows), path)
	return nil
}

func writeTable(svc service.ExtractionService, t *tabular.Table, dir, name string, format csvexport.Format) (string, error) {
	data, err := svc.Export(t, format)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
