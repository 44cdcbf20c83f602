package main

import (
	"log"

	maelstrom "github.com/jojohanhannesnes/pestis-incendium"
)

// Serves the echo, unique-ids and single-node broadcast workloads.
func main() {
	n := maelstrom.NewNode()
	if err := n.Run(); err != nil {
		if stage := maelstrom.ErrorStage(err); stage != "" {
			log.Fatalf("%s error: %s", stage, err)
		}
		log.Fatal(err)
	}
}
