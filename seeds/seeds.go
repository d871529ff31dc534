package seeds

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// A starter set of well-known directors, composers and writers so
// staff factors resolve to readable names on a fresh database. The
// table grows over time via the upsert path.
var staffNames = map[int64]string{
	95269:  "Shinichiro Watanabe",
	96901:  "Yoko Kanno",
	97007:  "Hayao Miyazaki",
	97197:  "Makoto Shinkai",
	100142: "Gen Urobuchi",
	101227: "Tetsuro Araki",
	102449: "Hiroyuki Sawano",
	103557: "Masaaki Yuasa",
	105579: "Naoko Yamada",
	106297: "Mari Okada",
	108617: "Yuki Kajiura",
	119331: "Kenji Kamiyama",
}

func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("[seed] inserting staff names")

	rows := []string{}
	args := []any{}

	i := 0
	for id, name := range staffNames {
		rows = append(rows, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
		args = append(args, id, name)
		i++
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO staff_names (id, full_name) VALUES " +
		strings.Join(rows, ", ") + " ON CONFLICT (id) DO NOTHING"

	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("seed staff names: %w", err)
	}

	log.Println("[seed] seeding complete")
	return nil
}
