package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ansipixels/meshview/internal/app"
	"github.com/ansipixels/meshview/internal/logger"
	"github.com/ansipixels/meshview/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRenderCmd() *cobra.Command {
	var (
		out      string
		commands []string
	)
	cmd := &cobra.Command{
		Use:   "render [model...]",
		Short: "Render one frame to a PNG file",
		Long:  "Render one frame headless. Console commands given with --cmd run first, in order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			log := headlessLogger(cfg)
			defer logger.Sync(log)

			sess, err := app.Open(cfg, log)
			if err != nil {
				return err
			}
			for _, line := range commands {
				res, err := sess.Viewer.Exec(line)
				if err != nil {
					return fmt.Errorf("%q: %w", line, err)
				}
				if res != "" {
					fmt.Fprintln(cmd.OutOrStdout(), res)
				}
			}
			return writeFrame(sess, out, log)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "frame.png", "Output PNG path")
	cmd.Flags().StringArrayVar(&commands, "cmd", nil, "Console command to run before rendering (repeatable)")
	return cmd
}

func newExecCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "exec <script> [model...]",
		Short: "Run a console command script headless",
		Long:  "Run every line of a command script against the scene, printing each response. With --out, render the final state to a PNG.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[1:])
			if err != nil {
				return err
			}
			log := headlessLogger(cfg)
			defer logger.Sync(log)

			sess, err := app.Open(cfg, log)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer f.Close()

			scriptErr := sess.Viewer.RunScript(f, cmd.OutOrStdout())
			if out != "" {
				if err := writeFrame(sess, out, log); err != nil {
					return errors.Join(scriptErr, err)
				}
			}
			return scriptErr
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Render the final state to this PNG path")
	return cmd
}

func writeFrame(sess *app.Session, out string, log *zap.Logger) error {
	frame := sess.Viewer.Render()
	if err := sess.Viewer.Framebuffer().SavePNG(out); err != nil {
		return err
	}
	log.Info("frame written",
		zap.String("path", out),
		zap.Int("primitives", len(frame.Primitives())),
		zap.Int("skipped_faces", len(frame.Issues)))
	return nil
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model>",
		Short: "Display model information",
		Long:  "Display format, vertex and triangle counts, bounding box and any face index problems of a mesh file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args[0])
		},
	}
}

func runInfo(cmd *cobra.Command, modelPath string) error {
	info, err := os.Stat(modelPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	mesh, err := models.Load(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	mesh.CalculateBounds()
	w := cmd.OutOrStdout()
	ext := strings.ToLower(filepath.Ext(modelPath))
	size := mesh.Size()
	center := mesh.Center()

	fmt.Fprintf(w, "File:       %s\n", filepath.Base(modelPath))
	fmt.Fprintf(w, "Format:     %s\n", strings.ToUpper(strings.TrimPrefix(ext, ".")))
	fmt.Fprintf(w, "Size:       %s\n", formatBytes(info.Size()))
	fmt.Fprintf(w, "Name:       %s\n", mesh.Name)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Vertices:   %d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Triangles:  %d\n", mesh.TriangleCount())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds Min: (%.3f, %.3f, %.3f)\n", mesh.BoundsMin.X, mesh.BoundsMin.Y, mesh.BoundsMin.Z)
	fmt.Fprintf(w, "Bounds Max: (%.3f, %.3f, %.3f)\n", mesh.BoundsMax.X, mesh.BoundsMax.Y, mesh.BoundsMax.Z)
	fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)

	if ext == ".glb" || ext == ".gltf" {
		if img, err := models.LoadGLTFTexture(modelPath); err == nil && img != nil {
			b := img.Bounds()
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Texture:    embedded (%dx%d)\n", b.Dx(), b.Dy())
		}
	}
	if err := mesh.Validate(); err != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Problems:\n%v\n", err)
	}
	return nil
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
