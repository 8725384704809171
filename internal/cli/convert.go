package cli

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/socat/omegeo/internal/pkg/geospatial"
)

var errNotFinite = errors.New("result is not finite; latitude must stay inside (-90, 90)")

func newToDecimalCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "to-decimal DEGREES MINUTES SECONDS [HEMISPHERE]",
		Short: "Convert a DMS triple to decimal degrees",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := parseFloats(args[:3])
			if err != nil {
				return err
			}
			var h geospatial.Hemisphere
			if len(args) == 4 {
				if h, err = geospatial.ParseHemisphere(args[3]); err != nil {
					return err
				}
			}
			v := o.conv.ToDecimal(vals[0], vals[1], vals[2], h)
			return o.emit(cmd.OutOrStdout(), map[string]float64{"value": v}, fmt.Sprintf("%g", v))
		},
	}
}

func newToDMSCmd(o *options) *cobra.Command {
	var axis string
	cmd := &cobra.Command{
		Use:   "to-dms VALUE",
		Short: "Split decimal degrees into degrees, minutes and seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := parseFloats(args)
			if err != nil {
				return err
			}
			a, err := geospatial.ParseAxis(axis)
			if err != nil {
				return err
			}
			d := o.conv.ToDMS(vals[0], a)
			return o.emit(cmd.OutOrStdout(), d, d.String())
		},
	}
	cmd.Flags().StringVar(&axis, "axis", "lat", "axis of the value: lat or lon")
	return cmd
}

func newForwardCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "forward LON LAT",
		Short: "Project a lon/lat point to Web-Mercator meters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := parseFloats(args)
			if err != nil {
				return err
			}
			p := o.conv.Forward(vals[0], vals[1])
			if math.IsInf(p.Y, 0) || math.IsNaN(p.Y) || math.IsNaN(p.X) {
				return errNotFinite
			}
			return o.emit(cmd.OutOrStdout(), p, fmt.Sprintf("%.2f %.2f", p.X, p.Y))
		},
	}
}

func newInverseCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inverse X Y",
		Short: "Convert Web-Mercator meters back to lon/lat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := parseFloats(args)
			if err != nil {
				return err
			}
			g := o.conv.Inverse(vals[0], vals[1])
			return o.emit(cmd.OutOrStdout(), g, fmt.Sprintf("%.6f %.6f", g.Lon, g.Lat))
		},
	}
}
