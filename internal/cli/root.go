// Package cli holds the geoconv command tree. Every sub-command takes
// its coordinates as positional arguments, so negative values must follow
// a "--" separator:
//
//	geoconv to-decimal 43 15 0 N
//	geoconv to-dms --axis lon -- -3.5
//	geoconv forward -- -2.935 43.263
//	geoconv inverse -- -326722.71 5352089.19
//	geoconv validate -- -10 43 -1 48
//	geoconv box --json -- -10 43 -1 48
package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/socat/omegeo/internal/core/usecases"
)

type options struct {
	json bool
	conv *usecases.ConversionService
}

// NewRootCmd builds the geoconv command with all of its sub-commands.
func NewRootCmd() *cobra.Command {
	opts := &options{conv: usecases.NewConversionService()}

	root := &cobra.Command{
		Use:   "geoconv",
		Short: "Coordinate conversion and search-box checks",
		Long: `geoconv converts between degree/minute/second and decimal
coordinates, projects points and boxes to and from Web-Mercator meters,
and checks search boxes with the same guard the API applies.
Pass "--" before any negative coordinate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print results as JSON")

	root.AddCommand(
		newToDecimalCmd(opts),
		newToDMSCmd(opts),
		newForwardCmd(opts),
		newInverseCmd(opts),
		newValidateCmd(opts),
		newBoxCmd(opts),
	)
	return root
}

// parseFloats parses every positional argument as a float64.
func parseFloats(args []string) ([]float64, error) {
	vals := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%q) is not a number", i+1, a)
		}
		vals[i] = v
	}
	return vals, nil
}

// emit writes v as indented JSON when --json is set and text otherwise.
func (o *options) emit(w io.Writer, v any, text string) error {
	if !o.json {
		_, err := fmt.Fprintln(w, text)
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
