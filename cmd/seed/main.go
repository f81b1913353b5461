// Package main provides a CLI tool for seeding the database with demo sales data.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"saleslens/internal/infrastructure/storage/postgres"
	"saleslens/pkg/logger"
)

var (
	subBrandNames = []string{"Challenge Burger", "Challenge Pizza", "Challenge Sushi"}

	// name, type (P = in-store, D = delivery), traffic share
	channelDefs = []struct {
		name   string
		typ    string
		weight float64
	}{
		{"Presencial", "P", 0.40},
		{"iFood", "D", 0.30},
		{"Rappi", "D", 0.15},
		{"Uber Eats", "D", 0.08},
		{"WhatsApp", "D", 0.05},
		{"App Próprio", "D", 0.02},
	}

	paymentTypeNames = []string{
		"Dinheiro", "Cartão de Crédito", "Cartão de Débito",
		"PIX", "Vale Refeição", "Vale Alimentação",
	}

	categoryNames = []string{"Burgers", "Pizzas", "Pratos", "Combos", "Sobremesas", "Bebidas"}

	productPrefixes = map[string][]string{
		"Burgers":    {"X-Burger", "Cheeseburger", "Bacon Burger", "Double Burger", "Veggie Burger"},
		"Pizzas":     {"Pizza Margherita", "Pizza Calabresa", "Pizza 4 Queijos", "Pizza Portuguesa", "Pizza Frango"},
		"Pratos":     {"Prato Executivo", "Filé", "Frango Grelhado", "Lasanha", "Risoto"},
		"Combos":     {"Combo Família", "Combo Individual", "Combo Duplo", "Combo Kids", "Combo Executivo"},
		"Sobremesas": {"Brownie", "Pudim", "Sorvete", "Petit Gateau", "Torta"},
		"Bebidas":    {"Refrigerante", "Suco", "Água", "Cerveja", "Vinho"},
	}

	discountReasons = []string{
		"Cupom de desconto", "Promoção do dia", "Cliente fidelidade",
		"Desconto gerente", "Primeira compra", "Aniversário",
	}

	courierTypes        = []string{"PLATFORM", "OWN", "THIRD_PARTY"}
	registrationOrigins = []string{"qr_code", "link", "balcony", "pos"}

	cities = []string{
		"São Paulo", "Rio de Janeiro", "Belo Horizonte", "Curitiba",
		"Porto Alegre", "Salvador", "Recife", "Fortaleza",
	}
	states = []string{"SP", "RJ", "MG", "PR", "RS", "BA", "PE", "CE"}

	// Sales concentrate at lunch and dinner; weekends run hotter.
	hourWeights = [24]float64{
		0.02, 0.02, 0.02, 0.02, 0.02, 0.02,
		0.08, 0.08, 0.08, 0.08, 0.08,
		0.35, 0.35, 0.35, 0.35,
		0.10, 0.10, 0.10, 0.10,
		0.40, 0.40, 0.40, 0.40,
		0.05,
	}
	weekdayMult = [7]float64{1.4, 0.8, 0.9, 0.95, 1.0, 1.3, 1.5} // Sun-Sat
)

type channel struct {
	id     int64
	typ    string
	weight float64
}

type product struct {
	id    int64
	price decimal.Decimal
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	s := &seeder{
		pool:     pool,
		inserter: postgres.NewBatchInserter(pool),
		executor: postgres.NewBatchExecutor(pool),
		log:      log,

		numStores:    envInt("SEED_STORES", 20),
		numProducts:  envInt("SEED_PRODUCTS", 120),
		numCustomers: envInt("SEED_CUSTOMERS", 2000),
		numSales:     envInt("SEED_SALES", 10000),
		months:       envInt("SEED_MONTHS", 6),
	}

	start := time.Now()
	if err := s.run(ctx); err != nil {
		log.Fatalw("seeding failed", "error", err)
	}
	log.Infow("seeding complete",
		"sales", s.numSales,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
}

type seeder struct {
	pool     *postgres.Pool
	inserter *postgres.BatchInserter
	executor *postgres.BatchExecutor
	log      *logger.Logger

	numStores    int
	numProducts  int
	numCustomers int
	numSales     int
	months       int

	subBrandIDs    []int64
	channels       []channel
	paymentTypeIDs []int64
	storeIDs       []int64
	storeSubBrand  map[int64]int64
	products       []product
	customerIDs    []int64
}

func (s *seeder) run(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"base data", s.seedBaseData},
		{"stores", s.seedStores},
		{"products", s.seedProducts},
		{"customers", s.seedCustomers},
		{"sales", s.seedSales},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
		s.log.Infow("seeded", "step", step.name)
	}
	return nil
}

func (s *seeder) seedBaseData(ctx context.Context) error {
	for _, name := range subBrandNames {
		var id int64
		err := s.pool.QueryRow(ctx,
			"INSERT INTO sub_brands (name) VALUES ($1) RETURNING id", name,
		).Scan(&id)
		if err != nil {
			return err
		}
		s.subBrandIDs = append(s.subBrandIDs, id)
	}

	for _, c := range channelDefs {
		var id int64
		err := s.pool.QueryRow(ctx,
			"INSERT INTO channels (name, type) VALUES ($1, $2) RETURNING id",
			c.name, c.typ,
		).Scan(&id)
		if err != nil {
			return err
		}
		s.channels = append(s.channels, channel{id: id, typ: c.typ, weight: c.weight})
	}

	for _, desc := range paymentTypeNames {
		var id int64
		err := s.pool.QueryRow(ctx,
			"INSERT INTO payment_types (description) VALUES ($1) RETURNING id", desc,
		).Scan(&id)
		if err != nil {
			return err
		}
		s.paymentTypeIDs = append(s.paymentTypeIDs, id)
	}

	return nil
}

func (s *seeder) seedStores(ctx context.Context) error {
	s.storeSubBrand = make(map[int64]int64, s.numStores)
	for i := 0; i < s.numStores; i++ {
		loc := rand.IntN(len(cities))
		subBrand := pick(s.subBrandIDs)

		var id int64
		err := s.pool.QueryRow(ctx,
			`INSERT INTO stores (sub_brand_id, name, city, state)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			subBrand, fmt.Sprintf("Loja %s %d", cities[loc], i+1), cities[loc], states[loc],
		).Scan(&id)
		if err != nil {
			return err
		}
		s.storeIDs = append(s.storeIDs, id)
		s.storeSubBrand[id] = subBrand
	}
	return nil
}

func (s *seeder) seedProducts(ctx context.Context) error {
	categoryIDs := make(map[string]int64, len(categoryNames))
	for _, name := range categoryNames {
		var id int64
		err := s.pool.QueryRow(ctx,
			"INSERT INTO categories (name) VALUES ($1) RETURNING id", name,
		).Scan(&id)
		if err != nil {
			return err
		}
		categoryIDs[name] = id
	}

	for i := 0; i < s.numProducts; i++ {
		cat := pick(categoryNames)
		name := fmt.Sprintf("%s %d", pick(productPrefixes[cat]), i+1)
		price := decimal.NewFromFloat(8 + rand.Float64()*72).Round(2)

		var id int64
		err := s.pool.QueryRow(ctx,
			`INSERT INTO products (sub_brand_id, category_id, name, base_price)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			pick(s.subBrandIDs), categoryIDs[cat], name, price,
		).Scan(&id)
		if err != nil {
			return err
		}
		s.products = append(s.products, product{id: id, price: price})
	}
	return nil
}

func (s *seeder) seedCustomers(ctx context.Context) error {
	rows := make([][]any, 0, s.numCustomers)
	for i := 0; i < s.numCustomers; i++ {
		rows = append(rows, []any{
			fmt.Sprintf("Cliente %05d", i+1),
			pick(registrationOrigins),
			time.Now().AddDate(0, 0, -rand.IntN(720)),
		})
	}

	if _, err := s.inserter.CopyFromSlice(ctx, "customers",
		[]string{"customer_name", "registration_origin", "created_at"}, rows); err != nil {
		return err
	}

	return s.loadIDs(ctx, "customers", &s.customerIDs)
}

// seedSales streams sales and their child rows through the COPY protocol.
// Sale ids are assigned client-side; sequences are realigned afterwards.
func (s *seeder) seedSales(ctx context.Context) error {
	var maxSaleID int64
	if err := s.pool.QueryRow(ctx, "SELECT COALESCE(MAX(id), 0) FROM sales").Scan(&maxSaleID); err != nil {
		return err
	}

	saleCols := []string{
		"id", "store_id", "sub_brand_id", "customer_id", "channel_id",
		"created_at", "sale_status_desc", "total_amount", "total_discount",
		"delivery_fee", "discount_reason", "production_seconds",
		"delivery_seconds", "people_quantity",
	}

	salesRows := make([][]any, 0, s.numSales)
	var productRows, deliveryRows, paymentRows [][]any

	now := time.Now()
	for i := 0; i < s.numSales; i++ {
		saleID := maxSaleID + int64(i) + 1
		storeID := pick(s.storeIDs)
		ch := s.pickChannel()
		createdAt := s.saleTime(now)
		completed := rand.Float64() < 0.95

		status := "COMPLETED"
		if !completed {
			status = "CANCELLED"
		}

		// Line items
		total := decimal.Zero
		for n := rand.IntN(3) + 1; n > 0; n-- {
			p := pick(s.products)
			qty := rand.IntN(3) + 1
			lineTotal := p.price.Mul(decimal.NewFromInt(int64(qty)))
			total = total.Add(lineTotal)
			productRows = append(productRows, []any{
				saleID, p.id, qty, p.price, lineTotal,
			})
		}

		var discount decimal.Decimal
		var discountReason any
		if rand.Float64() < 0.2 {
			discount = total.Mul(decimal.NewFromFloat(0.05 + rand.Float64()*0.15)).Round(2)
			discountReason = pick(discountReasons)
		}

		deliveryFee := decimal.Zero
		var deliverySeconds any
		if ch.typ == "D" {
			deliveryFee = decimal.NewFromFloat(5 + rand.Float64()*15).Round(2)
			if completed {
				deliverySeconds = rand.IntN(3000) + 600
				deliveryRows = append(deliveryRows, []any{
					saleID, pick(courierTypes), deliveryFee,
					deliveryFee.Mul(decimal.NewFromFloat(0.6)).Round(2),
				})
			}
		}

		var productionSeconds, peopleQuantity any
		if completed {
			productionSeconds = rand.IntN(2100) + 300
		}
		if ch.typ == "P" {
			peopleQuantity = rand.IntN(8) + 1
		}

		totalAmount := total.Sub(discount).Add(deliveryFee)
		if completed {
			paymentRows = append(paymentRows, []any{
				saleID, pick(s.paymentTypeIDs), totalAmount,
			})
		}

		salesRows = append(salesRows, []any{
			saleID, storeID, s.storeSubBrand[storeID], pick(s.customerIDs), ch.id,
			createdAt, status, totalAmount, discount,
			deliveryFee, discountReason, productionSeconds,
			deliverySeconds, peopleQuantity,
		})
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"sales", saleCols, salesRows},
		{"delivery_sales", []string{"sale_id", "courier_type", "delivery_fee", "courier_fee"}, deliveryRows},
		{"payments", []string{"sale_id", "payment_type_id", "value"}, paymentRows},
	}
	for _, c := range copies {
		if _, err := s.inserter.CopyFromSlice(ctx, c.table, c.columns, c.rows); err != nil {
			return fmt.Errorf("copy %s: %w", c.table, err)
		}
	}

	// product_sales is the largest relation (several line items per
	// sale); stream it instead of handing pgx a second materialized copy.
	productCh := make(chan []any, 256)
	go func() {
		defer close(productCh)
		for _, row := range productRows {
			productCh <- row
		}
	}()
	productCols := []string{"sale_id", "product_id", "quantity", "base_price", "total_price"}
	if _, err := s.inserter.CopyFromRows(ctx, "product_sales", productCols, productCh); err != nil {
		return fmt.Errorf("copy product_sales: %w", err)
	}

	// Explicit ids bypass the serial sequences.
	return s.executor.ExecuteBatch(ctx, []postgres.BatchQuery{
		{SQL: "SELECT setval(pg_get_serial_sequence('sales', 'id'), (SELECT MAX(id) FROM sales))"},
		{SQL: "SELECT setval(pg_get_serial_sequence('customers', 'id'), (SELECT MAX(id) FROM customers))"},
	})
}

// pickChannel draws a channel respecting the configured traffic shares.
func (s *seeder) pickChannel() channel {
	r := rand.Float64()
	var acc float64
	for _, c := range s.channels {
		acc += c.weight
		if r < acc {
			return c
		}
	}
	return s.channels[0]
}

// saleTime draws a timestamp inside the seeded window, biased towards lunch
// and dinner hours and weekend days.
func (s *seeder) saleTime(now time.Time) time.Time {
	for {
		day := now.AddDate(0, 0, -rand.IntN(s.months*30))
		hour := rand.IntN(24)
		if rand.Float64() > hourWeights[hour]*weekdayMult[int(day.Weekday())] {
			continue
		}
		return time.Date(day.Year(), day.Month(), day.Day(),
			hour, rand.IntN(60), rand.IntN(60), 0, day.Location())
	}
}

func (s *seeder) loadIDs(ctx context.Context, table string, dest *[]int64) error {
	rows, err := s.pool.Query(ctx, "SELECT id FROM "+table+" ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		*dest = append(*dest, id)
	}
	return rows.Err()
}

func pick[T any](items []T) T {
	return items[rand.IntN(len(items))]
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
