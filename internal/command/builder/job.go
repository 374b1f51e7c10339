// Package builder assembles external tool invocations.
package builder

import (
	"context"
	"os/exec"
	"path/filepath"

	"tasker/internal/domain/consts"
	"tasker/internal/models"
	"tasker/internal/utils/logging"
)

// JobCommandBuilder builds the external tool command for one (download, profile) job.
type JobCommandBuilder struct {
	BinName    string
	ArchiveDir string
}

// NewJobCommandBuilder returns a builder for the given binary and archive directory.
func NewJobCommandBuilder(binName, archiveDir string) *JobCommandBuilder {
	return &JobCommandBuilder{
		BinName:    binName,
		ArchiveDir: archiveDir,
	}
}

// ArchivePath returns the archive file used by a (download, profile) pair.
func ArchivePath(archiveDir, downloadName, profileName string) string {
	return filepath.Join(archiveDir, downloadName+"-"+profileName+consts.ArchiveFileExt)
}

// Args returns the argument list: archive flag (if enabled), profile args, then URLs.
func (b *JobCommandBuilder) Args(d models.Download, p models.Profile) []string {
	args := make([]string, 0, 2+len(p.Args)+len(d.URLs))

	if p.ArchiveEnabled() {
		args = append(args, consts.DownloadArchiveFlag, ArchivePath(b.ArchiveDir, d.Name, p.Name))
	}
	args = append(args, p.Args...)
	args = append(args, d.URLs...)

	logging.D(2, "Built argument list for download %q, profile %q: %v", d.Name, p.Name, args)
	return args
}

// JobCommand returns the command for one job. Output streams are left for the caller to set.
func (b *JobCommandBuilder) JobCommand(ctx context.Context, d models.Download, p models.Profile) *exec.Cmd {
	return exec.CommandContext(ctx, b.BinName, b.Args(d, p)...)
}
