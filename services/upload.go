package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MaxUploadSize caps spreadsheet uploads
const MaxUploadSize = 10 * 1024 * 1024 // 10MB

// ValidateSpreadsheetUpload checks that the uploaded file is an xlsx workbook within size limits.
// Errors wrap ErrInvalidSpreadsheet.
func ValidateSpreadsheetUpload(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxUploadSize {
		return fmt.Errorf("%w: file size exceeds maximum allowed size of 10MB", ErrInvalidSpreadsheet)
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" {
		return fmt.Errorf("%w: only .xlsx files are allowed", ErrInvalidSpreadsheet)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// xlsx workbooks are zip archives
	buffer := make([]byte, 4)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("failed to read file content: %w", err)
	}
	if n < 4 || string(buffer) != "PK\x03\x04" {
		return fmt.Errorf("%w: file is not a valid xlsx workbook", ErrInvalidSpreadsheet)
	}
	return nil
}
