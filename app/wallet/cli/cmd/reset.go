package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var resetAllocations []string

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the chain and install a fresh genesis state.",
	Run:   resetRun,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().StringSliceVar(&resetAllocations, "alloc", nil, "Genesis allocation as address=amount, repeatable. Empty uses the node defaults.")
}

func resetRun(cmd *cobra.Command, args []string) {
	allocations := make(map[string]float64)
	for _, alloc := range resetAllocations {
		address, amount, found := strings.Cut(alloc, "=")
		if !found {
			log.Fatalf("invalid allocation %q, want address=amount", alloc)
		}
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			log.Fatalf("invalid allocation amount %q: %v", amount, err)
		}
		allocations[address] = v
	}

	req := struct {
		Allocations map[string]float64 `json:"allocations"`
	}{
		Allocations: allocations,
	}

	data, err := json.Marshal(req)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/node/genesis/reset", privateURL), "application/json", bytes.NewBuffer(data))
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
