package reader

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tocsmith/tocsmith/internal/outline"
)

// pdftotextUnits extracts line units with poppler's pdftotext when the
// in-process parser cannot handle the file. The units carry no font
// metadata, so scoring falls back to numbering alone.
func pdftotextUnits(data []byte) ([]outline.Unit, int, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, 0, fmt.Errorf("pdftotext not found: install poppler-utils (brew install poppler on macOS)")
	}

	tmp, err := os.CreateTemp("", "tocsmith-*.pdf")
	if err != nil {
		return nil, 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, 0, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pageCount, err := pdfPageCount(tmpPath)
	if err != nil {
		return nil, 0, err
	}

	var units []outline.Unit
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text, err := extractPage(tmpPath, pageNum)
		if err != nil {
			return nil, 0, fmt.Errorf("extracting page %d: %w", pageNum, err)
		}
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			units = append(units, outline.Unit{
				Text:  line,
				Page:  pageNum,
				Index: len(units),
			})
		}
	}
	return units, pageCount, nil
}

// extractPage extracts text from a single page of a PDF.
func extractPage(pdfPath string, pageNum int) (string, error) {
	cmd := exec.Command("pdftotext", "-f", strconv.Itoa(pageNum), "-l", strconv.Itoa(pageNum), "-layout", pdfPath, "-")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// pdfPageCount returns the number of pages in a PDF.
func pdfPageCount(pdfPath string) (int, error) {
	cmd := exec.Command("pdfinfo", pdfPath)
	output, err := cmd.Output()
	if err != nil {
		// Less efficient, but works when pdfinfo isn't installed.
		return pageCountFallback(pdfPath)
	}

	// Parse "Pages: N" from output
	for _, line := range strings.Split(string(output), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			parts := strings.Fields(line)
			if len(parts) >= 2 {
				count, err := strconv.Atoi(parts[1])
				if err != nil {
					continue
				}
				return count, nil
			}
		}
	}

	return 0, fmt.Errorf("could not determine page count from pdfinfo")
}

// pageCountFallback counts pages by extracting until failure.
func pageCountFallback(pdfPath string) (int, error) {
	// Binary search for page count
	low, high := 1, 10000

	for low < high {
		mid := (low + high + 1) / 2

		cmd := exec.Command("pdftotext", "-f", strconv.Itoa(mid), "-l", strconv.Itoa(mid), pdfPath, "-")
		if err := cmd.Run(); err != nil {
			high = mid - 1
		} else {
			low = mid
		}
	}

	if low == 0 {
		return 0, fmt.Errorf("could not determine page count")
	}

	return low, nil
}
