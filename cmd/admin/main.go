package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shoptalk/backend/internal/inbox"
	"shoptalk/backend/internal/models"
	"shoptalk/backend/internal/storage"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "seed":
		if err := seedDemoData(ctx, db, storageSvc); err != nil {
			log.Fatalf("Error seeding demo data: %v", err)
		}
		fmt.Println("Demo accounts and conversations created.")
	case "inbox":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin inbox <kind> <ref_id> [size] [before_millis]")
			os.Exit(1)
		}
		kind := models.ParticipantKind(os.Args[2])
		if !kind.Valid() {
			fmt.Println("Kind must be one of: user, company, admin.")
			os.Exit(1)
		}
		refID, err := strconv.Atoi(os.Args[3])
		if err != nil {
			fmt.Println("Invalid ref id. Please provide an integer.")
			os.Exit(1)
		}

		size := 10
		if len(os.Args) > 4 {
			if size, err = strconv.Atoi(os.Args[4]); err != nil {
				fmt.Println("Invalid size. Please provide an integer.")
				os.Exit(1)
			}
		}
		var before *time.Time
		if len(os.Args) > 5 {
			millis, err := strconv.ParseInt(os.Args[5], 10, 64)
			if err != nil {
				fmt.Println("Invalid watermark. Please provide unix milliseconds.")
				os.Exit(1)
			}
			watermark := time.UnixMilli(millis)
			before = &watermark
		}

		ref := models.AccountRef{Kind: kind, RefID: uint(refID)}
		if err := printInbox(ctx, storageSvc, ref, size, before); err != nil {
			log.Fatalf("Error listing inbox: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

// printInbox pages through a participant's conversations from the terminal,
// advancing the watermark the same way an API client would.
func printInbox(ctx context.Context, s *storage.Service, ref models.AccountRef, size int, before *time.Time) error {
	service := inbox.NewService(s, s)

	chats, err := service.ListConversations(ctx, ref, size, before)
	if err != nil {
		return err
	}
	if len(chats) == 0 {
		fmt.Println("(empty inbox)")
		return nil
	}

	for _, chat := range chats {
		pin := " "
		if chat.Pinned {
			pin = "*"
		}
		fmt.Printf("%s chat %-5d %-20s unread=%-3d modified=%s\n",
			pin, chat.ChatID, chat.Name, chat.UnreadMessages, chat.LastModifiedAt.Format(time.RFC3339))
	}

	last := chats[len(chats)-1]
	if !last.Pinned {
		fmt.Printf("next: admin inbox %s %d %d %d\n",
			ref.Kind, ref.RefID, size, last.LastModifiedAt.UnixMilli()-1)
	}
	return nil
}

// seedDemoData provisions a buyer, a seller company, a platform admin and a
// few conversations between them, so the API has something to page through.
func seedDemoData(ctx context.Context, db *gorm.DB, s *storage.Service) error {
	if err := db.AutoMigrate(
		&models.User{}, &models.Company{}, &models.Admin{},
		&models.ChatRoom{}, &models.UserMapping{}, &models.ChatParticipant{}, &models.ChatMessage{},
	); err != nil {
		return err
	}

	user := models.User{Nickname: "demo-buyer", Avatar: "https://cdn.example/buyer.png"}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	company := models.Company{CompanyName: "Demo Foods", Categories: []string{"food", "grocery"}}
	if err := db.Create(&company).Error; err != nil {
		return err
	}
	admin := models.Admin{Username: "ops"}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	buyer := models.AccountRef{Kind: models.KindUser, RefID: user.UserID}
	seller := models.AccountRef{Kind: models.KindCompany, RefID: company.CompanyID}
	platform := models.AccountRef{Kind: models.KindAdmin, RefID: admin.AdminID}

	if _, err := s.CreateChat(ctx, []models.AccountRef{buyer, seller}); err != nil {
		return err
	}
	support, err := s.CreateChat(ctx, []models.AccountRef{buyer, platform})
	if err != nil {
		return err
	}
	return s.SetPinned(ctx, support.ChatID, buyer, true)
}
