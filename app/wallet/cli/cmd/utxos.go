package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var utxosAddress string

type utxo struct {
	TxID   string  `json:"tx_id"`
	Index  int     `json:"index"`
	Amount float64 `json:"amount"`
	Owner  string  `json:"owner"`
}

var utxosCmd = &cobra.Command{
	Use:   "utxos",
	Short: "Print the unspent outputs owned by an address.",
	Run:   utxosRun,
}

func init() {
	rootCmd.AddCommand(utxosCmd)
	utxosCmd.Flags().StringVarP(&utxosAddress, "address", "a", "", "Address to query.")
	utxosCmd.MarkFlagRequired("address")
}

func utxosRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/utxos/list/%s", url, utxosAddress))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var utxos []utxo
	if err := json.NewDecoder(resp.Body).Decode(&utxos); err != nil {
		log.Fatal(err)
	}

	for _, u := range utxos {
		fmt.Printf("(%s, %d) %v\n", u.TxID, u.Index, u.Amount)
	}
}
