package main

import (
	"github.com/spf13/cobra"

	"github.com/ethbatch/v1/internal/core/engine"
)

var walletCount int

// walletCmd 钱包相关命令
var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "钱包管理",
}

// walletCreateCmd 生成新钱包
var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "生成随机钱包",
	Long:  "生成N个相互独立的随机钱包，每个包含地址、私钥与BIP39助记词",
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, err := engine.New(engine.Params{
			Operation:   engine.KindCreateWallet,
			ChainID:     globalFlags.ChainID,
			WalletCount: walletCount,
		}, nil, nil, newLogger())
		if err != nil {
			return err
		}

		outputs, err := exec.Run(cmd.Context(), nil)
		if err != nil {
			return err
		}
		return printOutputs(outputs)
	},
}

func init() {
	walletCreateCmd.Flags().IntVarP(&walletCount, "count", "n", 1, "生成数量 (1-100)")
	walletCmd.AddCommand(walletCreateCmd)
}
