package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type SizeUnit string

const (
	SizeUnitKB SizeUnit = "KB"
	SizeUnitMB SizeUnit = "MB"
)

const (
	minTransferChunks = 5
	maxTransferChunks = 30
)

var sizePattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*([KkMm][Bb])\s*$`)

type FileEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Size        string `json:"size"`
	Date        string `json:"date"`
	Uploader    string `json:"uploader"`
	Downloads   int    `json:"downloads"`
}

// FileSize is a parsed "<number> (KB|MB)" value.
type FileSize struct {
	Value float64
	Unit  SizeUnit
}

func (s FileSize) String() string {
	return strconv.FormatFloat(s.Value, 'f', -1, 64) + " " + string(s.Unit)
}

func ParseFileSize(raw string) (FileSize, error) {
	match := sizePattern.FindStringSubmatch(raw)
	if match == nil {
		return FileSize{}, fmt.Errorf("invalid file size %q", raw)
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return FileSize{}, fmt.Errorf("invalid file size %q: %w", raw, err)
	}

	return FileSize{Value: value, Unit: SizeUnit(strings.ToUpper(match[2]))}, nil
}

// NormalizeSize rewrites loose sizes such as "256kb" into "256 KB".
func NormalizeSize(raw string) (string, error) {
	size, err := ParseFileSize(raw)
	if err != nil {
		return "", err
	}
	return size.String(), nil
}

// TransferChunks is the number of progress steps a simulated download takes.
func (f FileEntry) TransferChunks() int {
	size, err := ParseFileSize(f.Size)
	if err != nil {
		return minTransferChunks
	}

	var chunks int
	switch size.Unit {
	case SizeUnitKB:
		chunks = int(size.Value/5) + 1
	default:
		chunks = int(size.Value*20) + 1
	}

	return min(max(chunks, minTransferChunks), maxTransferChunks)
}
