package main

import (
	"github.com/spf13/cobra"

	"github.com/ethbatch/v1/internal/core/engine"
)

// gasCmd 费用数据查询
var gasCmd = &cobra.Command{
	Use:   "gas",
	Short: "查询当前费用数据",
	Long:  "查询gasPrice、EIP-1559费用上限与最新区块元数据，恰好产出一条记录",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := dialConn(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		return runSingle(cmd.Context(), engine.Params{
			Operation: engine.KindGetGas,
			ChainID:   globalFlags.ChainID,
		}, conn, nil)
	},
}
