package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	mineMiner  string
	mineNumTxs int
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Commit the best pending transactions into a new block.",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVarP(&mineMiner, "miner", "m", "", "Address that receives the block fees.")
	mineCmd.Flags().IntVarP(&mineNumTxs, "num-txs", "n", 0, "Max transactions to include, 0 for the node default.")
	mineCmd.MarkFlagRequired("miner")
}

func mineRun(cmd *cobra.Command, args []string) {
	req := struct {
		MinerAddress string `json:"miner_address"`
		NumTxs       int    `json:"num_txs"`
	}{
		MinerAddress: mineMiner,
		NumTxs:       mineNumTxs,
	}

	data, err := json.Marshal(req)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/node/mine", privateURL), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(body))
}
