package denoiser_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seisprep/internal/denoiser"
	"seisprep/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeExecutable writes a shell script into dir and returns its path.
func fakeExecutable(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestProcessRunner_Predict_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "separated_quake_and_noise.hdf5")
	predict := fakeExecutable(t, dir, "fake_predict", ": > separated_quake_and_noise.hdf5")

	r := denoiser.NewProcessRunner(predict, "", "", dir, out, testLogger())
	require.NoError(t, r.Predict(context.Background()))

	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestProcessRunner_Predict_NoOutputContainer(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "separated_quake_and_noise.hdf5")
	predict := fakeExecutable(t, dir, "fake_predict", "exit 0")

	r := denoiser.NewProcessRunner(predict, "", "", dir, out, testLogger())
	err := r.Predict(context.Background())
	assert.ErrorIs(t, err, domain.ErrExternalProcess)
}

func TestProcessRunner_Predict_NonZeroExit(t *testing.T) {
	dir := t.TempDir()
	predict := fakeExecutable(t, dir, "fake_predict", "exit 3")

	r := denoiser.NewProcessRunner(predict, "", "", dir, filepath.Join(dir, "out.h5"), testLogger())
	err := r.Predict(context.Background())
	assert.ErrorIs(t, err, domain.ErrExternalProcess)
}

func TestProcessRunner_Train(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "trained")
	train := fakeExecutable(t, dir, "fake_train", ": > trained")

	r := denoiser.NewProcessRunner("", train, "", dir, "", testLogger())
	require.NoError(t, r.Train(context.Background()))

	_, err := os.Stat(marker)
	assert.NoError(t, err)
}

func TestProcessRunner_MissingCommand(t *testing.T) {
	r := denoiser.NewProcessRunner("", "", "", t.TempDir(), "", testLogger())
	assert.ErrorIs(t, r.Train(context.Background()), domain.ErrExternalProcess)
}

func TestProcessRunner_RunsInWorkDir(t *testing.T) {
	workDir := t.TempDir()
	otherDir := t.TempDir()
	testCmd := fakeExecutable(t, otherDir, "fake_test", ": > ran_here")

	r := denoiser.NewProcessRunner("", "", testCmd, workDir, "", testLogger())
	require.NoError(t, r.Test(context.Background()))

	_, err := os.Stat(filepath.Join(workDir, "ran_here"))
	assert.NoError(t, err, "process should run in the config.ini directory")
}
