package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethbatch/v1/internal/core/engine"
	"github.com/ethbatch/v1/internal/core/resolve"
)

var signMessage string

// signCmd 离线消息签名
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "离线消息签名",
	Long:  "对消息做EIP-191（personal_sign）签名，不广播任何交易；端点可选",
	RunE: func(cmd *cobra.Command, args []string) error {
		if signMessage == "" {
			return fmt.Errorf("必须指定 --message")
		}

		keys, err := resolveKey()
		if err != nil {
			return err
		}

		return runSingle(cmd.Context(), engine.Params{
			Operation: engine.KindSignMessage,
			ChainID:   globalFlags.ChainID,
			Message:   resolve.Static(signMessage),
		}, nil, keys)
	},
}

func init() {
	signCmd.Flags().StringVarP(&signMessage, "message", "m", "", "待签名消息文本")
}
