package cmd

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var blocksLimit int

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Print the latest blocks, newest first.",
	Run:   blocksRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().IntVarP(&blocksLimit, "limit", "l", 0, "Max blocks to return, 0 for the node default.")
}

func blocksRun(cmd *cobra.Command, args []string) {
	target := fmt.Sprintf("%s/v1/blocks/list", url)
	if blocksLimit > 0 {
		target = fmt.Sprintf("%s/%d", target, blocksLimit)
	}

	resp, err := http.Get(target)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		fmt.Println("no blocks")
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(body))
}
