package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tenmin/investcast/pkg"
)

// hashgen prints the bcrypt hash for a given password, ready to be set
// as INVESTCAST_ADMIN_PASSWORD_HASH.
func main() {
	password := flag.String("password", "", "password to hash")
	flag.Parse()

	if *password == "" {
		fmt.Println("usage: hashgen -password <password>")
		os.Exit(1)
	}

	hash, err := pkg.HashPassword(*password)
	if err != nil {
		fmt.Printf("failed to hash password: %s\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
