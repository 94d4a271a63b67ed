package main

import (
	"reflect"

	"github.com/spf13/cobra"

	"github.com/wippyai/typeinfo"
	"github.com/wippyai/typeinfo/typeof"
)

// Account is a demo record.
type Account struct {
	Owner   [32]byte    `doc:"Public key of the owner."`
	Balance typeof.U128 `scale:"compact"`
	Nonce   uint64      `scale:"compact"`
	Labels  map[string]string
	Frozen  bool
}

// Call is a demo tagged union.
type Call struct {
	typeof.Enum
	Transfer *struct {
		To     [32]byte
		Amount typeof.U128 `scale:"compact"`
	}
	Remark *[]byte `scale:"index=3"`
	Freeze *struct{}
}

// Extrinsic is the demo root type.
type Extrinsic struct {
	Signer    *Account
	Call      Call
	Signature typeof.Result[[64]byte, string]
	Era       typeof.Compact[uint32]
	Flags     typeof.BitVec
}

func newDemoCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a sample table built from Go types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := typeinfo.BuildTypes(reflect.TypeFor[Extrinsic]())
			if err != nil {
				return err
			}
			format, err := formatOf(out, a.format())
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), out, reg, format)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}
