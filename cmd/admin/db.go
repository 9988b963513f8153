package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	dbPath := fs.String("db", "", "sqlite db path (optional; defaults to <data>/index/houses.sqlite)")
	houseID := fs.String("house", "", "house_id filter (rooms requires it)")
	status := fs.String("status", "", "status filter (builds)")
	limit := fs.Int("limit", 20, "result limit")
	_ = fs.Parse(args)

	q := "builds"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}
	if *limit <= 0 {
		*limit = 20
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		path = filepath.Join(*dataDir, "index", "houses.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	switch q {
	case "builds":
		query := `SELECT house_id,seq,min_x,min_y,min_z,max_x,max_y,max_z,orientation,secondary_rooms,status,rooms,floors,placements,entrance_room,recorded_at FROM builds ORDER BY seq LIMIT ?`
		qargs := []any{*limit}
		if s := strings.TrimSpace(*status); s != "" {
			query = `SELECT house_id,seq,min_x,min_y,min_z,max_x,max_y,max_z,orientation,secondary_rooms,status,rooms,floors,placements,entrance_room,recorded_at FROM builds WHERE status=? ORDER BY seq LIMIT ?`
			qargs = []any{s, *limit}
		}
		rows, err := db.Query(query, qargs...)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				HouseID        string `json:"house_id"`
				Seq            int64  `json:"seq"`
				Min            [3]int `json:"min"`
				Max            [3]int `json:"max"`
				Orientation    string `json:"orientation"`
				SecondaryRooms int    `json:"secondary_rooms"`
				Status         string `json:"status"`
				Rooms          int    `json:"rooms"`
				Floors         int    `json:"floors"`
				Placements     int    `json:"placements"`
				EntranceRoom   int    `json:"entrance_room"`
				RecordedAt     string `json:"recorded_at"`
			}
			if err := rows.Scan(&r.HouseID, &r.Seq,
				&r.Min[0], &r.Min[1], &r.Min[2], &r.Max[0], &r.Max[1], &r.Max[2],
				&r.Orientation, &r.SecondaryRooms, &r.Status, &r.Rooms, &r.Floors, &r.Placements, &r.EntranceRoom, &r.RecordedAt,
			); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "rows:", err)
			os.Exit(1)
		}

	case "rooms":
		id := strings.TrimSpace(*houseID)
		if id == "" {
			fmt.Fprintln(os.Stderr, "missing -house")
			os.Exit(2)
		}
		rows, err := db.Query(`SELECT idx,x,z,width,depth,height FROM rooms WHERE house_id=? ORDER BY idx`, id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				HouseID string `json:"house_id"`
				Idx     int    `json:"idx"`
				X       int    `json:"x"`
				Z       int    `json:"z"`
				Width   int    `json:"width"`
				Depth   int    `json:"depth"`
				Height  int    `json:"height"`
			}
			if err := rows.Scan(&r.Idx, &r.X, &r.Z, &r.Width, &r.Depth, &r.Height); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			r.HouseID = id
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "rows:", err)
			os.Exit(1)
		}

	case "snapshots":
		rows, err := db.Query(`SELECT house_id,path,chunks,palette,recorded_at FROM snapshots ORDER BY house_id LIMIT ?`, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				HouseID    string `json:"house_id"`
				Path       string `json:"path"`
				Chunks     int    `json:"chunks"`
				Palette    int    `json:"palette"`
				RecordedAt string `json:"recorded_at"`
			}
			if err := rows.Scan(&r.HouseID, &r.Path, &r.Chunks, &r.Palette, &r.RecordedAt); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "rows:", err)
			os.Exit(1)
		}

	case "catalogs":
		rows, err := db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Name      string `json:"name"`
				Digest    string `json:"digest"`
				UpdatedAt string `json:"updated_at"`
			}
			if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "rows:", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown query:", q)
		fmt.Fprintln(os.Stderr, "usage: admin db [-data ./data|-db PATH] [-house ID] [-status S] [-limit N] builds|rooms|snapshots|catalogs")
		os.Exit(2)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
