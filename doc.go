/*
Package patrol simulates a single agent patrolling a bounded 2-D grid.

The agent walks straight ahead and turns clockwise whenever the next cell holds an
obstacle. Patrol traces the agent until it leaves the grid, detects when it is trapped
in a loop, and searches for every cell where one extra obstacle would trap it.

# Concept

A Scenario (grid plus agent) is parsed from text: '.' is empty, '#' is an obstacle and
one of '^', '>', 'v' or '<' marks the agent and the way it faces. The Engine is stateless: every run clones the agent and
keeps its own visited record, so searches fan out safely across a worker pool sharing
one read-only grid.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"
		"os"

		"github.com/aretw0/patrol"
	)

	func main() {
		eng, err := patrol.New(patrol.WithWorkers(8))
		if err != nil {
			log.Fatal(err)
		}

		data, err := os.ReadFile("grid.txt")
		if err != nil {
			log.Fatal(err)
		}

		report, err := eng.Analyze(context.Background(), data)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("visited:", report.Visited, "loop cells:", report.LoopCount())
	}
*/
package patrol
