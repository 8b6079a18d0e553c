package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethbatch/v1/internal/core/engine"
	"github.com/ethbatch/v1/internal/core/resolve"
)

var (
	balanceAddress string
	tokenAddress   string
	tokenDecimals  uint8
)

// balanceCmd 原生币余额查询
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "查询原生币余额",
	RunE: func(cmd *cobra.Command, args []string) error {
		if balanceAddress == "" {
			return fmt.Errorf("必须指定 --address")
		}

		conn, err := dialConn(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		return runSingle(cmd.Context(), engine.Params{
			Operation: engine.KindGetBalance,
			ChainID:   globalFlags.ChainID,
			Address:   resolve.Static(balanceAddress),
		}, conn, nil)
	},
}

// tokenBalanceCmd ERC-20余额查询
var tokenBalanceCmd = &cobra.Command{
	Use:   "token-balance",
	Short: "查询ERC-20余额",
	RunE: func(cmd *cobra.Command, args []string) error {
		if balanceAddress == "" || tokenAddress == "" {
			return fmt.Errorf("必须指定 --address 和 --token")
		}

		conn, err := dialConn(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		return runSingle(cmd.Context(), engine.Params{
			Operation:     engine.KindGetERC20Balance,
			ChainID:       globalFlags.ChainID,
			Address:       resolve.Static(balanceAddress),
			TokenAddress:  tokenAddress,
			TokenDecimals: tokenDecimals,
		}, conn, nil)
	},
}

func init() {
	balanceCmd.Flags().StringVarP(&balanceAddress, "address", "a", "", "查询地址")

	tokenBalanceCmd.Flags().StringVarP(&balanceAddress, "address", "a", "", "查询地址")
	tokenBalanceCmd.Flags().StringVarP(&tokenAddress, "token", "t", "", "代币合约地址")
	tokenBalanceCmd.Flags().Uint8Var(&tokenDecimals, "decimals", 0, "代币小数位（0=自动查询）")
}
