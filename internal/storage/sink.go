package storage

import (
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/rohmanhakim/talk-parser/internal/config"
	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/pkg/failure"
	"github.com/rohmanhakim/talk-parser/pkg/fileutil"
	"github.com/rohmanhakim/talk-parser/pkg/hashutil"
)

/*
Responsibilities
- Persist thread artifacts (JSON or Markdown)
- Ensure deterministic filenames

Output Characteristics
- Stable directory layout: <outputDir>/<titleHash>.<ext>
- Idempotent writes
- Overwrite-safe reruns (temp file then rename)
- outputDir "-" streams the artifact to stdout
*/

// titleHashLength is the number of hex characters of the title hash kept in filenames.
const titleHashLength = 12

type Sink interface {
	Write(
		outputDir string,
		doc Document,
		hashAlgo hashutil.HashAlgo,
	) (WriteResult, failure.ClassifiedError)
}

// Compile-time interface check
var _ Sink = (*LocalSink)(nil)

type LocalSink struct {
	metadataSink metadata.MetadataSink
	stdout       io.Writer
	dryRun       bool
}

// NewLocalSink creates a sink writing under the output directory.
// stdout receives artifacts when the output directory is "-".
// In dry-run mode paths and hashes are computed but nothing is written.
func NewLocalSink(
	metadataSink metadata.MetadataSink,
	stdout io.Writer,
	dryRun bool,
) LocalSink {
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	if stdout == nil {
		stdout = io.Discard
	}
	return LocalSink{
		metadataSink: metadataSink,
		stdout:       stdout,
		dryRun:       dryRun,
	}
}

func (s *LocalSink) Write(
	outputDir string,
	doc Document,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, failure.ClassifiedError) {
	writeResult, err := s.write(outputDir, doc, hashAlgo)
	if err != nil {
		var storageError *StorageError
		errors.As(err, &storageError)
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			"LocalSink.Write",
			mapStorageErrorToMetadataCause(storageError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrTitle, doc.Title()),
				metadata.NewAttr(metadata.AttrLanguage, doc.Language()),
				metadata.NewAttr(metadata.AttrWritePath, storageError.Path),
			},
		)
		return WriteResult{}, storageError
	}
	s.metadataSink.RecordArtifact(
		doc.Kind(),
		writeResult.Path(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, writeResult.Path()),
			metadata.NewAttr(metadata.AttrTitle, doc.Title()),
			metadata.NewAttr(metadata.AttrLanguage, doc.Language()),
			metadata.NewAttr(metadata.AttrField, writeResult.ContentHash()),
		},
	)
	return writeResult, nil
}

func (s *LocalSink) write(
	outputDir string,
	doc Document,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, *StorageError) {
	titleHashFull, err := hashutil.HashBytes([]byte(doc.identity()), hashAlgo)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputationFailed,
		}
	}
	titleHash := titleHashFull[:titleHashLength]

	contentHash, err := hashutil.HashBytes(doc.Content(), hashAlgo)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputationFailed,
		}
	}

	if outputDir == config.StdoutDir {
		if !s.dryRun {
			if _, err := s.stdout.Write(doc.Content()); err != nil {
				return WriteResult{}, &StorageError{
					Message:   err.Error(),
					Retryable: false,
					Cause:     ErrCauseWriteFailure,
					Path:      config.StdoutDir,
				}
			}
		}
		return NewWriteResult(titleHash, config.StdoutDir, contentHash), nil
	}

	fullPath := filepath.Join(outputDir, titleHash+doc.extension())
	if s.dryRun {
		return NewWriteResult(titleHash, fullPath, contentHash), nil
	}

	if err := fileutil.EnsureDir(outputDir); err != nil {
		return WriteResult{}, fromFileError(err, ErrCausePathError, outputDir)
	}

	if err := fileutil.WriteFileReplacing(fullPath, doc.Content()); err != nil {
		return WriteResult{}, fromFileError(err, ErrCauseWriteFailure, fullPath)
	}

	return NewWriteResult(titleHash, fullPath, contentHash), nil
}

// fromFileError translates a fileutil failure; retryable file errors are a full disk.
func fromFileError(err failure.ClassifiedError, cause StorageErrorCause, path string) *StorageError {
	retryable := false
	var fileErr *fileutil.FileError
	if errors.As(err, &fileErr) && fileErr.Retryable {
		cause = ErrCauseDiskFull
		retryable = true
	}
	return &StorageError{
		Message:   err.Error(),
		Retryable: retryable,
		Cause:     cause,
		Path:      path,
	}
}
