package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ivlev/flipbook/internal/document"
)

type layerInfo struct {
	Index     int    `json:"index"`
	ID        int    `json:"id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Visible   bool   `json:"visible"`
	KeyFrames []int  `json:"key_frames"`
}

type documentInfo struct {
	Name      string      `json:"name"`
	ID        string      `json:"id"`
	Colours   int         `json:"colours"`
	LastFrame int         `json:"last_frame"`
	Layers    []layerInfo `json:"layers"`
}

func describeDocument(doc *document.Document) documentInfo {
	info := documentInfo{
		Name:      doc.Name,
		ID:        doc.ID().String(),
		Colours:   doc.ColourCount(),
		LastFrame: lastKeyFrame(doc),
		Layers:    []layerInfo{},
	}
	for i, l := range doc.Layers() {
		info.Layers = append(info.Layers, layerInfo{
			Index:     i,
			ID:        l.ID(),
			Kind:      l.Kind().String(),
			Name:      l.Name(),
			Visible:   l.Visible(),
			KeyFrames: l.KeyFrames(),
		})
	}
	return info
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show the layer stack of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.openDocument(cmd, args[0])
			if err != nil {
				return err
			}
			info := describeDocument(doc)
			if asJSON {
				return writeJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d colours, last frame %d)\n", info.Name, info.Colours, info.LastFrame)
			rows := make([][]string, 0, len(info.Layers))
			for _, l := range info.Layers {
				visible := "yes"
				if !l.Visible {
					visible = "no"
				}
				rows = append(rows, []string{
					strconv.Itoa(l.Index),
					strconv.Itoa(l.ID),
					l.Kind,
					l.Name,
					visible,
					strconv.Itoa(len(l.KeyFrames)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "ID", "Kind", "Name", "Visible", "Keys"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
