// Command shadematch extracts cosmetic colors from face images and matches
// them against a product catalog.
package main

func main() {
	Execute()
}
