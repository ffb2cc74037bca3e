package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ivlev/flipbook/internal/document"
)

type colourInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Hex   string `json:"hex"`
}

func newPaletteCommand(ctx *commandContext) *cobra.Command {
	paletteCmd := &cobra.Command{
		Use:   "palette",
		Short: "Edit the colour palette",
	}

	paletteCmd.AddCommand(newPaletteListCommand(ctx))
	paletteCmd.AddCommand(newPaletteAddCommand(ctx))
	paletteCmd.AddCommand(newPaletteRemoveCommand(ctx))
	paletteCmd.AddCommand(newPaletteRenameCommand(ctx))
	paletteCmd.AddCommand(newPaletteExportCommand(ctx))
	paletteCmd.AddCommand(newPaletteImportCommand(ctx))

	return paletteCmd
}

func newPaletteListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List palette entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.openDocument(cmd, args[0])
			if err != nil {
				return err
			}
			colours := make([]colourInfo, 0, doc.ColourCount())
			for i, c := range doc.Colours() {
				colours = append(colours, colourInfo{Index: i, Name: c.Name, Hex: formatColour(c.RGB)})
			}
			if asJSON {
				return writeJSON(cmd, colours)
			}
			rows := make([][]string, 0, len(colours))
			for _, c := range colours {
				rows = append(rows, []string{strconv.Itoa(c.Index), c.Name, c.Hex})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Name", "Colour"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newPaletteAddCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <file> <#rrggbb>",
		Short: "Append a colour",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rgb, err := parseColour(args[1])
			if err != nil {
				return err
			}
			return ctx.editDocument(cmd, args[0], func(doc *document.Document) error {
				i := doc.AddColour(rgb)
				if name != "" {
					doc.RenameColour(i, name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added colour %d (%s)\n", i, doc.Colour(i).Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Colour name")
	return cmd
}

func newPaletteRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <file> <index>",
		Aliases: []string{"remove"},
		Short:   "Remove a colour no vector layer uses",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex(args[1], "colour index")
			if err != nil {
				return err
			}
			return ctx.editDocument(cmd, args[0], func(doc *document.Document) error {
				if i < 0 || i >= doc.ColourCount() {
					return fmt.Errorf("colour index %d out of range (palette has %d colours)", i, doc.ColourCount())
				}
				name := doc.Colour(i).Name
				if !doc.RemoveColour(i) {
					return fmt.Errorf("colour %d (%s) is used by a vector layer", i, name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed colour %d (%s)\n", i, name)
				return nil
			})
		},
	}
}

func newPaletteRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <file> <index> <name>",
		Short: "Rename a colour",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex(args[1], "colour index")
			if err != nil {
				return err
			}
			return ctx.editDocument(cmd, args[0], func(doc *document.Document) error {
				if !doc.RenameColour(i, args[2]) {
					return fmt.Errorf("colour index %d out of range (palette has %d colours)", i, doc.ColourCount())
				}
				return nil
			})
		},
	}
}

func newPaletteExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file> <palette.yaml>",
		Short: "Write the palette to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.openDocument(cmd, args[0])
			if err != nil {
				return err
			}
			if err := doc.ExportPalette(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d colours to %s\n", doc.ColourCount(), args[1])
			return nil
		},
	}
}

func newPaletteImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file> <palette.yaml>",
		Short: "Replace the palette with a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.editDocument(cmd, args[0], func(doc *document.Document) error {
				if err := doc.ImportPalette(args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d colours from %s\n", doc.ColourCount(), args[1])
				return nil
			})
		},
	}
}
