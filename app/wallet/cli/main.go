package main

import "github.com/ardanlabs/utxo/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
