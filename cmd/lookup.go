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
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/Chocapikk/wpaudit/internal/config"
	wphttp "github.com/Chocapikk/wpaudit/internal/http"
	"github.com/Chocapikk/wpaudit/internal/model"
	"github.com/Chocapikk/wpaudit/internal/output"
	"github.com/Chocapikk/wpaudit/internal/registry"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <core|theme|plugin> [slug...]",
	Short: "Show the latest published version of WordPress, themes or plugins",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().String("registry-url", config.Defaults().RegistryURL, "Base URL of the WordPress.org API")
}

func runLookup(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, v, map[string]string{"registry-url": config.KeyRegistryURL})

	kind, err := model.ParseKind(args[0])
	if err != nil {
		return err
	}
	slugs := args[1:]
	if kind == model.Core {
		slugs = []string{""}
	} else if len(slugs) == 0 {
		return fmt.Errorf("%s lookup needs at least one slug", kind)
	}

	client := wphttp.NewHTTPClient(wphttp.Config{
		Timeout:      v.GetDuration(config.KeyTimeout),
		UserAgent:    v.GetString(config.KeyUserAgent),
		MaxRedirects: v.GetInt(config.KeyMaxRedirects),
	})
	reg := registry.NewWordPressOrg(v.GetString(config.KeyRegistryURL), client)

	root := tree.Root(output.TitleStyle.Render("🔍 Latest " + kind.Label() + " versions"))
	for _, slug := range slugs {
		name := slug
		if kind == model.Core {
			name = "WordPress"
		}
		latest, err := reg.Latest(cmd.Context(), kind, strings.TrimSpace(slug))
		if err != nil {
			root.Child(output.URLStyle.Render(name) + " " + output.StatusStyle(model.StatusUnknown).Render(err.Error()))
			continue
		}
		root.Child(output.URLStyle.Render(name) + " " + output.StatusStyle(model.StatusOk).Render(latest))
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), output.SeparatorStyle.Render(root.String()))
	return err
}
