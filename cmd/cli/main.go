package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"cylinderManagement/internal/auth"
	"cylinderManagement/internal/config"
	"cylinderManagement/internal/db"
	"cylinderManagement/internal/session"
	"cylinderManagement/models"
	"cylinderManagement/repository"
)

func main() {
	addUserCmd := flag.NewFlagSet("add-user", flag.ExitOnError)
	name := addUserCmd.String("name", "", "Full name of the new user")
	email := addUserCmd.String("email", "", "Email of the new user")
	password := addUserCmd.String("password", "", "Password for the new user")
	userType := addUserCmd.String("type", "Admin", "User type: Admin, Filler or Dispatcher")
	age := addUserCmd.Int("age", 0, "Age of the new user")

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "Email to log in with")
	loginPassword := loginCmd.String("password", "", "Password to log in with")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-user', 'login', 'whoami' or 'logout' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-user":
		addUserCmd.Parse(os.Args[2:])
		if *name == "" || *email == "" || *password == "" {
			fmt.Println("name, email and password are required")
			addUserCmd.PrintDefaults()
			os.Exit(1)
		}
		createUser(*name, *email, *password, *userType, *age)
	case "login":
		loginCmd.Parse(os.Args[2:])
		if *loginEmail == "" || *loginPassword == "" {
			fmt.Println("email and password are required")
			loginCmd.PrintDefaults()
			os.Exit(1)
		}
		login(*loginEmail, *loginPassword)
	case "whoami":
		whoami()
	case "logout":
		logout()
	default:
		fmt.Println("expected 'add-user', 'login', 'whoami' or 'logout' subcommand")
		os.Exit(1)
	}
}

func openUsers() (*repository.UserRepository, *config.Config) {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	return repository.NewUserRepository(d), cfg
}

func createUser(name, email, password, userType string, age int) {
	t := models.UserType(userType)
	switch t {
	case models.UserTypeAdmin, models.UserTypeFiller, models.UserTypeDispatcher:
	default:
		log.Fatalf("invalid user type %q", userType)
	}

	users, _ := openUsers()

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	u, err := users.Create(context.Background(), &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		UserType:     t,
		Age:          age,
	})
	if err != nil {
		log.Fatalf("create user: %v", err)
	}
	fmt.Printf("User '%s' (%s) created with id %d.\n", u.Name, u.UserType, u.ID)
}

func login(email, password string) {
	users, cfg := openUsers()

	u, err := users.GetByEmail(context.Background(), email)
	if err != nil {
		log.Fatalf("get user: %v", err)
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		log.Fatal("invalid credentials")
	}

	store := session.NewStore(cfg.Session.Path)
	if err := store.Save(u); err != nil {
		log.Fatalf("save session: %v", err)
	}
	fmt.Printf("Logged in as %s (%s).\n", u.Name, u.UserType)
}

func whoami() {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	rec, err := session.NewStore(cfg.Session.Path).Load()
	if err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) {
			fmt.Println("Not logged in.")
			return
		}
		log.Fatalf("load session: %v", err)
	}
	fmt.Printf("%s <%s> (%s)\n", rec.Name, rec.Email, rec.UserType)
}

func logout() {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := session.NewStore(cfg.Session.Path).Clear(); err != nil {
		log.Fatalf("clear session: %v", err)
	}
	fmt.Println("Logged out.")
}
