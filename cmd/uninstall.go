// Copyright (c) 2025 Valentin Lobstein (Chocapikk) <balgogan@protonmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/Chocapikk/wpaudit/internal/file"
	"github.com/Chocapikk/wpaudit/internal/logger"
)

var getStorageDirFunc = file.StorageDir
var getExecutableFunc = os.Executable

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstalls wpaudit and removes its configuration directory and the binary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return uninstall()
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func uninstall() error {
	configDir, err := getStorageDirFunc()
	if err != nil {
		return fmt.Errorf("failed to get user config directory: %w", err)
	}
	if err := removeDir(configDir, "wpaudit configuration"); err != nil {
		return err
	}

	execPath, err := getExecutableFunc()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	if err := removeFile(execPath, "wpaudit binary"); err != nil {
		return err
	}

	logger.DefaultLogger.Success("wpaudit has been fully uninstalled.")
	return nil
}

func removeDir(path, description string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.DefaultLogger.Warning(description + " not found. Nothing to remove.")
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", description, err)
	}
	return nil
}

func removeFile(path, description string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", description, err)
	}
	return nil
}
