package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethbatch/v1/internal/core/engine"
	"github.com/ethbatch/v1/internal/core/resolve"
)

var (
	transferTo     string
	transferAmount string
)

// transferCmd 原生币转账
var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "原生币转账",
	Long: `提交一笔原生币转账并阻塞等待回执。

金额格式（历史兼容的双格式）：
  含小数点 → 按ETH解析，如 "0.5"
  不含小数点 → 按wei解析，如 "500000000000000000"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if transferTo == "" || transferAmount == "" {
			return fmt.Errorf("必须指定 --to 和 --amount")
		}

		conn, err := dialConn(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		keys, err := resolveKey()
		if err != nil {
			return err
		}

		return runSingle(cmd.Context(), engine.Params{
			Operation: engine.KindTransfer,
			ChainID:   globalFlags.ChainID,
			To:        resolve.Static(transferTo),
			Amount:    resolve.Static(transferAmount),
		}, conn, keys)
	},
}

// transferTokenCmd ERC-20转账
var transferTokenCmd = &cobra.Command{
	Use:   "transfer-token",
	Short: "ERC-20转账",
	Long:  "提交一笔ERC-20 transfer并阻塞等待回执；金额按代币的人类可读单位解析",
	RunE: func(cmd *cobra.Command, args []string) error {
		if transferTo == "" || transferAmount == "" || tokenAddress == "" {
			return fmt.Errorf("必须指定 --to, --amount 和 --token")
		}

		conn, err := dialConn(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		keys, err := resolveKey()
		if err != nil {
			return err
		}

		return runSingle(cmd.Context(), engine.Params{
			Operation:     engine.KindTransferERC20,
			ChainID:       globalFlags.ChainID,
			To:            resolve.Static(transferTo),
			Amount:        resolve.Static(transferAmount),
			TokenAddress:  tokenAddress,
			TokenDecimals: tokenDecimals,
		}, conn, keys)
	},
}

func init() {
	transferCmd.Flags().StringVar(&transferTo, "to", "", "收款地址")
	transferCmd.Flags().StringVar(&transferAmount, "amount", "", "转账金额")

	transferTokenCmd.Flags().StringVar(&transferTo, "to", "", "收款地址")
	transferTokenCmd.Flags().StringVar(&transferAmount, "amount", "", "转账金额（人类可读单位）")
	transferTokenCmd.Flags().StringVarP(&tokenAddress, "token", "t", "", "代币合约地址")
	transferTokenCmd.Flags().Uint8Var(&tokenDecimals, "decimals", 0, "代币小数位（0=自动查询）")
}
