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
	sendFrom   string
	sendTo     string
	sendAmount float64
	sendFee    float64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transfer to the mempool.",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendFrom, "from", "f", "", "Address sending the funds.")
	sendCmd.Flags().StringVarP(&sendTo, "to", "t", "", "Address receiving the funds.")
	sendCmd.Flags().Float64VarP(&sendAmount, "amount", "v", 0, "Amount to send.")
	sendCmd.Flags().Float64VarP(&sendFee, "fee", "c", 0.001, "Fee to offer the miner.")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) {
	transfer := struct {
		Sender    string  `json:"sender"`
		Recipient string  `json:"recipient"`
		Amount    float64 `json:"amount"`
		Fee       float64 `json:"fee"`
	}{
		Sender:    sendFrom,
		Recipient: sendTo,
		Amount:    sendAmount,
		Fee:       sendFee,
	}

	data, err := json.Marshal(transfer)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
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
