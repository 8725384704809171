package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/socat/omegeo/internal/core/domain"
	"github.com/socat/omegeo/internal/pkg/geospatial"
)

// InvalidBoxError is returned by validate so the process exits non-zero.
type InvalidBoxError struct {
	Reason string
}

func (e *InvalidBoxError) Error() string {
	return "invalid box: " + e.Reason
}

func boxFromArgs(args []string) (domain.BoundingBox, error) {
	vals, err := parseFloats(args)
	if err != nil {
		return domain.BoundingBox{}, err
	}
	return domain.BoundingBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}, nil
}

func newValidateCmd(o *options) *cobra.Command {
	var placeText string
	cmd := &cobra.Command{
		Use:   "validate [WEST SOUTH EAST NORTH]",
		Short: "Check a search box with the drawing guard",
		Long: `Check a search box with the drawing guard. The box is given either
as four positional numbers or, with --place, as the "north west south east"
text returned by the legacy place lookup.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if placeText != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(4)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var b domain.BoundingBox
			if placeText != "" {
				b = geospatial.ParsePlaceBounds(placeText)
			} else {
				var err error
				if b, err = boxFromArgs(args); err != nil {
					return err
				}
			}
			reason := geospatial.InvalidReason(b.West, b.South, b.East, b.North)
			result := struct {
				Valid  bool   `json:"valid"`
				Reason string `json:"reason,omitempty"`
			}{Valid: reason == "", Reason: reason}

			text := "valid"
			if reason != "" {
				text = "invalid (" + reason + ")"
			}
			if err := o.emit(cmd.OutOrStdout(), result, text); err != nil {
				return err
			}
			if reason != "" {
				return &InvalidBoxError{Reason: reason}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&placeText, "place", "", `legacy "north west south east" text`)
	return cmd
}

func newBoxCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "box WEST SOUTH EAST NORTH",
		Short: "Project a box to Web-Mercator and print its DMS edges",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := boxFromArgs(args)
			if err != nil {
				return err
			}
			p := o.conv.BoxForward(geospatial.ClipToWorld(b))
			dms := o.conv.BoundsToDMS(b)

			result := struct {
				Bounds    domain.BoundingBox          `json:"bounds"`
				Projected domain.ProjectedBoundingBox `json:"projected"`
				DMS       domain.BoundsDMS            `json:"dms"`
			}{b, p, dms}

			text := fmt.Sprintf("projected: %.2f %.2f %.2f %.2f\nwest: %s\nsouth: %s\neast: %s\nnorth: %s",
				p.West, p.South, p.East, p.North, dms.West, dms.South, dms.East, dms.North)
			return o.emit(cmd.OutOrStdout(), result, text)
		},
	}
}
