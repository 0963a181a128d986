package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-grocer/internal/catalog"
)

type category struct {
	Name   string
	Locale string
}

type product struct {
	Name        string
	Description string
	Category    string
	Image       string
}

type store struct {
	Name     string
	Location string
	Address  string
	Lat, Lon string
}

type offer struct {
	Product string
	Store   string
	Price   string
	Stock   int
}

var categories = []category{
	{"Fruit & Vegetables", "en"},
	{"Bakery", "en"},
	{"Dairy & Eggs", "en"},
	{"Beverages", "en"},
	{"Pantry", "en"},
}

var products = []product{
	{"Red Apples 1kg", "Crisp red apples", "Fruit & Vegetables", "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6?w=800"},
	{"Bananas 1kg", "Ripe Cavendish bananas", "Fruit & Vegetables", "https://images.unsplash.com/photo-1571771894821-ce9b6c11b08e?w=800"},
	{"Tomatoes 500g", "Vine tomatoes", "Fruit & Vegetables", "https://images.unsplash.com/photo-1546470427-e26264be0b0d?w=800"},
	{"Sourdough Loaf", "Slow fermented sourdough", "Bakery", "https://images.unsplash.com/photo-1585478259715-876acc5be8eb?w=800"},
	{"Whole Wheat Bread", "Sliced whole wheat bread", "Bakery", "https://images.unsplash.com/photo-1509440159596-0249088772ff?w=800"},
	{"Fresh Milk 1L", "Full cream milk", "Dairy & Eggs", "https://images.unsplash.com/photo-1563636619-e9143da7973b?w=800"},
	{"Free Range Eggs 10pcs", "Free range chicken eggs", "Dairy & Eggs", "https://images.unsplash.com/photo-1506976785307-8732e854ad03?w=800"},
	{"Cheddar 200g", "Mature cheddar block", "Dairy & Eggs", ""},
	{"Ground Coffee 250g", "Medium roast arabica", "Beverages", "https://images.unsplash.com/photo-1559056199-641a0ac8b55e?w=800"},
	{"Green Tea 25 bags", "Japanese sencha", "Beverages", "https://images.unsplash.com/photo-1556679343-c7306c1976bc?w=800"},
	{"Jasmine Rice 5kg", "Fragrant long grain rice", "Pantry", "https://images.unsplash.com/photo-1586201375761-83865001e31c?w=800"},
	{"Olive Oil 500ml", "Extra virgin olive oil", "Pantry", "assets/products/olive-oil.jpg"},
}

var stores = []store{
	{"FreshMart Sudirman", "Jakarta", "Jl. Jend. Sudirman Kav. 52", "-6.225014", "106.808487"},
	{"FreshMart Kemang", "Jakarta", "Jl. Kemang Raya No. 8", "-6.260775", "106.813180"},
	{"PasarKita Depok", "Depok", "Jl. Margonda Raya No. 358", "-6.372460", "106.834030"},
	{"PasarKita Bogor", "Bogor", "Jl. Pajajaran No. 21", "-6.595038", "106.816635"},
	{"Hemat Grocer Bandung", "Bandung", "Jl. Asia Afrika No. 100", "-6.921530", "107.607100"},
}

var offers = []offer{
	{"Red Apples 1kg", "FreshMart Sudirman", "3.20", 40},
	{"Red Apples 1kg", "FreshMart Kemang", "3.05", 25},
	{"Red Apples 1kg", "PasarKita Depok", "2.80", 60},
	{"Red Apples 1kg", "Hemat Grocer Bandung", "2.40", 80},
	{"Bananas 1kg", "FreshMart Sudirman", "1.90", 50},
	{"Bananas 1kg", "PasarKita Depok", "1.50", 70},
	{"Bananas 1kg", "PasarKita Bogor", "1.45", 35},
	{"Tomatoes 500g", "FreshMart Kemang", "1.10", 30},
	{"Tomatoes 500g", "PasarKita Bogor", "0.95", 45},
	{"Sourdough Loaf", "FreshMart Sudirman", "4.50", 12},
	{"Sourdough Loaf", "FreshMart Kemang", "4.25", 10},
	{"Whole Wheat Bread", "PasarKita Depok", "2.10", 20},
	{"Whole Wheat Bread", "Hemat Grocer Bandung", "1.85", 25},
	{"Fresh Milk 1L", "FreshMart Sudirman", "1.60", 100},
	{"Fresh Milk 1L", "FreshMart Kemang", "1.55", 90},
	{"Fresh Milk 1L", "PasarKita Depok", "1.40", 120},
	{"Fresh Milk 1L", "PasarKita Bogor", "1.40", 60},
	{"Free Range Eggs 10pcs", "FreshMart Kemang", "3.30", 40},
	{"Free Range Eggs 10pcs", "PasarKita Bogor", "2.95", 30},
	{"Cheddar 200g", "FreshMart Sudirman", "4.10", 15},
	{"Ground Coffee 250g", "FreshMart Sudirman", "6.75", 20},
	{"Ground Coffee 250g", "Hemat Grocer Bandung", "5.90", 18},
	{"Green Tea 25 bags", "PasarKita Depok", "2.25", 40},
	{"Jasmine Rice 5kg", "PasarKita Depok", "7.80", 30},
	{"Jasmine Rice 5kg", "PasarKita Bogor", "7.50", 25},
	{"Jasmine Rice 5kg", "Hemat Grocer Bandung", "6.95", 50},
	{"Olive Oil 500ml", "FreshMart Kemang", "8.40", 10},
}

func main() {
	flushCache := flag.Bool("flush-cache", true, "drop cached catalog responses after seeding when REDIS_URL is set")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	if err := seed(ctx, db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if redisURL := os.Getenv("REDIS_URL"); *flushCache && redisURL != "" {
		flushCatalogCache(ctx, redisURL)
	}
	log.Println("Seeding completed successfully!")
}

func seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	catIDs, err := seedCategories(ctx, tx)
	if err != nil {
		return err
	}
	prodIDs, err := seedProducts(ctx, tx, catIDs)
	if err != nil {
		return err
	}
	storeIDs, err := seedStores(ctx, tx)
	if err != nil {
		return err
	}
	if err := seedOffers(ctx, tx, prodIDs, storeIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// upsertByName inserts a row unless one with the same natural key already
// exists and returns its id. The tables carry no unique constraint on names.
func upsertByName(ctx context.Context, tx *sql.Tx, lookup, insert string, key []any, values ...any) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, lookup, key...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	err = tx.QueryRowContext(ctx, insert, values...).Scan(&id)
	return id, err
}

func seedCategories(ctx context.Context, tx *sql.Tx) (map[string]int64, error) {
	fmt.Println("Seeding Categories...")
	ids := make(map[string]int64, len(categories))
	for _, c := range categories {
		id, err := upsertByName(ctx, tx,
			`SELECT id FROM categories WHERE name = $1 AND locale = $2`,
			`INSERT INTO categories (name, locale) VALUES ($1, $2) RETURNING id`,
			[]any{c.Name, c.Locale}, c.Name, c.Locale)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", c.Name, err)
		}
		ids[c.Name] = id
	}
	return ids, nil
}

func seedProducts(ctx context.Context, tx *sql.Tx, catIDs map[string]int64) (map[string]int64, error) {
	fmt.Println("Seeding Products...")
	ids := make(map[string]int64, len(products))
	for _, p := range products {
		catID, ok := catIDs[p.Category]
		if !ok {
			return nil, fmt.Errorf("product %s: unknown category %s", p.Name, p.Category)
		}
		image := sql.NullString{String: p.Image, Valid: p.Image != ""}
		id, err := upsertByName(ctx, tx,
			`SELECT id FROM products WHERE name = $1`,
			`INSERT INTO products (name, description, category_id, image_ref) VALUES ($1, $2, $3, $4) RETURNING id`,
			[]any{p.Name}, p.Name, p.Description, catID, image)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", p.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET description = $2, category_id = $3, image_ref = $4 WHERE id = $1`,
			id, p.Description, catID, image); err != nil {
			return nil, fmt.Errorf("refresh product %s: %w", p.Name, err)
		}
		ids[p.Name] = id
	}
	return ids, nil
}

func seedStores(ctx context.Context, tx *sql.Tx) (map[string]int64, error) {
	fmt.Println("Seeding Stores...")
	ids := make(map[string]int64, len(stores))
	for _, s := range stores {
		lat, err := decimal.NewFromString(s.Lat)
		if err != nil {
			return nil, fmt.Errorf("store %s latitude: %w", s.Name, err)
		}
		lon, err := decimal.NewFromString(s.Lon)
		if err != nil {
			return nil, fmt.Errorf("store %s longitude: %w", s.Name, err)
		}
		id, err := upsertByName(ctx, tx,
			`SELECT id FROM stores WHERE name = $1`,
			`INSERT INTO stores (name, location, address, latitude, longitude) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			[]any{s.Name}, s.Name, s.Location, s.Address, lat, lon)
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", s.Name, err)
		}
		ids[s.Name] = id
	}
	return ids, nil
}

func seedOffers(ctx context.Context, tx *sql.Tx, prodIDs, storeIDs map[string]int64) error {
	fmt.Println("Seeding Offers...")
	for _, o := range offers {
		price, err := decimal.NewFromString(o.Price)
		if err != nil {
			return fmt.Errorf("offer %s@%s price: %w", o.Product, o.Store, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO store_offers (product_id, store_id, price, stock)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (product_id, store_id) DO UPDATE SET
				price = EXCLUDED.price,
				stock = EXCLUDED.stock;
		`, prodIDs[o.Product], storeIDs[o.Store], price, o.Stock)
		if err != nil {
			return fmt.Errorf("offer %s@%s: %w", o.Product, o.Store, err)
		}
	}
	return nil
}

func flushCatalogCache(ctx context.Context, redisURL string) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Skipping cache flush: %v", err)
		return
	}
	client := redis.NewClient(opts)
	defer client.Close()

	removed, err := catalog.NewCache(client, time.Minute).Invalidate(ctx, "catalog:*")
	if err != nil {
		log.Printf("Failed to flush catalog cache: %v", err)
		return
	}
	log.Printf("Flushed %d cached catalog entries", removed)
}
