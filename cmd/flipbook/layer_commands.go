package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/flipbook/internal/document"
	"github.com/ivlev/flipbook/internal/layer"
)

func newLayerCommand(ctx *commandContext) *cobra.Command {
	layerCmd := &cobra.Command{
		Use:   "layer",
		Short: "Edit the layer stack",
	}

	layerCmd.AddCommand(newLayerAddCommand(ctx))
	layerCmd.AddCommand(newLayerMoveCommand(ctx))
	layerCmd.AddCommand(newLayerRemoveCommand(ctx))
	layerCmd.AddCommand(newLayerVisibilityCommand(ctx, "show", true))
	layerCmd.AddCommand(newLayerVisibilityCommand(ctx, "hide", false))
	layerCmd.AddCommand(newLayerUnkeyCommand(ctx))

	return layerCmd
}

func newLayerAddCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <file> <bitmap|vector|sound|camera>",
		Short: "Add a layer on top of the stack",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := layer.ParseKind(args[1])
			if !ok {
				return fmt.Errorf("%w: %q", layer.ErrUnknownKind, args[1])
			}
			return ctx.editDocument(cmd, args[0], func(doc *document.Document) error {
				l, err := doc.AddLayer(kind)
				if err != nil {
					return err
				}
				if name != "" {
					l.SetName(name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s layer %d (%s) at index %d\n",
					kind, l.ID(), l.Name(), doc.LayerCount()-1)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Layer name")
	return cmd
}

func newLayerMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <file> <from> <to>",
		Short: "Move a layer to another index",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.editDocument(cmd, args[0], func(doc *document.Document) error {
				l, from, err := layerAt(doc, args[1])
				if err != nil {
					return err
				}
				to, err := parseIndex(args[2], "target index")
				if err != nil {
					return err
				}
				if _, ok := doc.Layer(to); !ok {
					return fmt.Errorf("%w: %d", document.ErrLayerIndex, to)
				}
				doc.MoveLayer(from, to)
				fmt.Fprintf(cmd.OutOrStdout(), "Moved layer %d from %d to %d\n", l.ID(), from, to)
				return nil
			})
		},
	}
}

func newLayerRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <file> <index>",
		Aliases: []string{"remove"},
		Short:   "Delete a layer",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.editDocument(cmd, args[0], func(doc *document.Document) error {
				l, i, err := layerAt(doc, args[1])
				if err != nil {
					return err
				}
				doc.DeleteLayer(i)
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted layer %d (%s)\n", l.ID(), l.Name())
				return nil
			})
		},
	}
}

func newLayerVisibilityCommand(ctx *commandContext, use string, visible bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <file> <index>",
		Short: "Set whether a layer is painted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.editDocument(cmd, args[0], func(doc *document.Document) error {
				l, _, err := layerAt(doc, args[1])
				if err != nil {
					return err
				}
				if l.Visible() == visible {
					return nil
				}
				l.SetVisible(visible)
				doc.MarkModified()
				return nil
			})
		},
	}
}

func newLayerUnkeyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unkey <file> <index> <frame>",
		Short: "Remove the keyframe of a layer at a frame",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.editDocument(cmd, args[0], func(doc *document.Document) error {
				l, _, err := layerAt(doc, args[1])
				if err != nil {
					return err
				}
				frame, err := parseIndex(args[2], "frame")
				if err != nil {
					return err
				}
				if !l.RemoveKeyAt(frame) {
					return fmt.Errorf("layer %d has no key at frame %d", l.ID(), frame)
				}
				doc.MarkModified()
				fmt.Fprintf(cmd.OutOrStdout(), "Removed key at frame %d from layer %d\n", frame, l.ID())
				return nil
			})
		},
	}
}
