package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/makersmarket/makersmarket-backend/config"
	"github.com/makersmarket/makersmarket-backend/internal/app/model"
	"github.com/makersmarket/makersmarket-backend/internal/app/repository"
	"github.com/makersmarket/makersmarket-backend/internal/db"
	"github.com/makersmarket/makersmarket-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Demo accounts created by "seed all" and removed by "seed undo".
var demoUsers = []struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}{
	{"Alice", "Turner", "alice@example.com", "password123"},
	{"Bruno", "Keller", "bruno@example.com", "password123"},
	{"Chloe", "Nakamura", "chloe@example.com", "password123"},
}

var demoProducts = []struct {
	OwnerEmail   string
	Name         string
	Price        float64
	Description  string
	PreviewImage string
}{
	{"alice@example.com", "Hand-thrown ceramic mug", 24.00, "Stoneware mug with a matte glaze, holds 350ml.", "previews/ceramic-mug.jpg"},
	{"alice@example.com", "Walnut serving board", 58.50, "End-grain walnut board, food-safe oil finish.", "previews/walnut-board.jpg"},
	{"bruno@example.com", "Linen tote bag", 32.00, "Heavyweight linen tote with leather straps.", "previews/linen-tote.jpg"},
	{"bruno@example.com", "Brass candle holder", 41.75, "Cast brass holder for taper candles.", "previews/brass-holder.jpg"},
	{"chloe@example.com", "Indigo-dyed scarf", 45.00, "Hand-dyed silk scarf, no two alike.", "previews/indigo-scarf.jpg"},
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: seed <all|undo|import <xlsx_file_path>>")
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	switch command {
	case "all":
		if err := seedAll(userRepo, productRepo, cartRepo, favoriteRepo, reviewRepo); err != nil {
			log.Fatal("Seeding failed:", err)
		}
	case "undo":
		if !confirm("This will delete all demo users and their data. Proceed? (yes/no): ") {
			fmt.Println("Cancelled.")
			return
		}
		if err := seedUndo(userRepo, productRepo); err != nil {
			log.Fatal("Undo failed:", err)
		}
	case "import":
		if len(os.Args) < 3 {
			log.Fatal("Usage: seed import <xlsx_file_path>")
		}
		if err := importProducts(os.Args[2], userRepo, productRepo); err != nil {
			log.Fatal("Import failed:", err)
		}
	default:
		log.Fatalf("Unknown command: %s (expected all, undo or import)", command)
	}
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "yes" || answer == "y"
}

func seedAll(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	favoriteRepo repository.FavoriteRepository,
	reviewRepo repository.ReviewRepository,
) error {
	userIDs := make(map[string]uint)

	for _, u := range demoUsers {
		existing, err := userRepo.FindByEmail(u.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			fmt.Printf("User already exists, skipping: %s\n", u.Email)
			userIDs[u.Email] = existing.ID
			continue
		}

		hash, err := util.HashPassword(u.Password)
		if err != nil {
			return err
		}
		user := &model.User{
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Email:        u.Email,
			PasswordHash: hash,
		}
		if err := userRepo.Create(user); err != nil {
			return err
		}
		userIDs[u.Email] = user.ID
		fmt.Printf("Created user: %s\n", u.Email)
	}

	// Rerunning must not duplicate products or trip the unique pair indexes.
	if existing, err := productRepo.FindByOwnerID(userIDs["alice@example.com"]); err != nil {
		return err
	} else if len(existing) > 0 {
		fmt.Println("Demo data already present, nothing to do.")
		return nil
	}

	var productIDs []uint
	for _, p := range demoProducts {
		ownerID, ok := userIDs[p.OwnerEmail]
		if !ok {
			continue
		}
		product := &model.Product{
			Name:         p.Name,
			Price:        p.Price,
			Description:  p.Description,
			PreviewImage: p.PreviewImage,
			OwnerID:      ownerID,
		}
		if err := productRepo.Create(product); err != nil {
			return err
		}
		productIDs = append(productIDs, product.ID)
	}

	// A few carts, favorites and reviews so the demo data looks lived-in.
	if len(productIDs) >= 3 {
		alice := userIDs["alice@example.com"]
		bruno := userIDs["bruno@example.com"]
		chloe := userIDs["chloe@example.com"]

		if err := cartRepo.Upsert(bruno, productIDs[0], 2); err != nil {
			return err
		}
		if err := cartRepo.Upsert(chloe, productIDs[1], 1); err != nil {
			return err
		}

		if err := favoriteRepo.Create(&model.Favorite{
			UserID: chloe, ProductID: productIDs[0],
		}); err != nil {
			return err
		}
		if err := favoriteRepo.Create(&model.Favorite{
			UserID: alice, ProductID: productIDs[2],
		}); err != nil {
			return err
		}

		if err := reviewRepo.Create(&model.Review{
			UserID: bruno, ProductID: productIDs[0],
			Rating: 5, Body: "Beautiful finish, arrived well packed.",
		}); err != nil {
			return err
		}
		if err := reviewRepo.Create(&model.Review{
			UserID: chloe, ProductID: productIDs[1],
			Rating: 4, Body: "Lovely grain, slightly smaller than expected.",
		}); err != nil {
			return err
		}
	}

	fmt.Printf("Seeding complete: %d users, %d products\n", len(demoUsers), len(productIDs))
	return nil
}

func seedUndo(userRepo repository.UserRepository, productRepo repository.ProductRepository) error {
	for _, u := range demoUsers {
		user, err := userRepo.FindByEmail(u.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}

		// Listed products survive account deletion, so remove them first.
		products, err := productRepo.FindByOwnerID(user.ID)
		if err != nil {
			return err
		}
		for _, p := range products {
			if err := productRepo.Delete(p.ID); err != nil {
				return err
			}
		}

		if err := userRepo.Delete(user.ID); err != nil {
			return err
		}
		fmt.Printf("Removed user and their data: %s\n", u.Email)
	}

	fmt.Println("Undo complete.")
	return nil
}

// importProducts bulk-loads a product catalog from an XLSX file with the
// columns: owner email, name, price, description, preview image.
func importProducts(filePath string, userRepo repository.UserRepository, productRepo repository.ProductRepository) error {
	fmt.Printf("Reading XLSX file: %s\n", filePath)

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data found in XLSX file")
	}

	ownerCache := make(map[string]uint)
	var products []model.Product
	skipped := 0

	for i, row := range rows {
		// First row is the header.
		if i == 0 {
			continue
		}
		if len(row) < 3 {
			skipped++
			continue
		}

		ownerEmail := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		priceStr := strings.TrimSpace(row[2])
		description := ""
		previewImage := ""
		if len(row) > 3 {
			description = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			previewImage = strings.TrimSpace(row[4])
		}

		if ownerEmail == "" || name == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}

		ownerID, ok := ownerCache[ownerEmail]
		if !ok {
			owner, err := userRepo.FindByEmail(ownerEmail)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					skipped++
					continue
				}
				return err
			}
			ownerID = owner.ID
			ownerCache[ownerEmail] = ownerID
		}

		products = append(products, model.Product{
			Name:         name,
			Price:        price,
			Description:  description,
			PreviewImage: previewImage,
			OwnerID:      ownerID,
		})
	}

	fmt.Printf("Total products to import: %d (skipped %d rows)\n", len(products), skipped)
	if len(products) == 0 {
		return fmt.Errorf("nothing to import")
	}

	if !confirm("Do you want to proceed with the import? (yes/no): ") {
		fmt.Println("Import cancelled.")
		return nil
	}

	batchSize := 500
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		return fmt.Errorf("failed to bulk create products: %w", err)
	}

	fmt.Println("Import completed successfully!")
	return nil
}
