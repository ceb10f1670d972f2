package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/archtable/warehouse"
	"github.com/archtable/warehouse/table"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Populate a storage with a few archetypes and run queries over it",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Int("entities", 1000, "number of entities to create per archetype")
	viper.BindPFlag("entities", runCmd.Flags().Lookup("entities"))
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	}
	n := viper.GetInt("entities")

	registry := prometheus.NewRegistry()
	recorder := warehouse.NewMetricsRecorder(registry)

	schema := table.Factory.NewSchema()
	storage := warehouse.Factory.NewStorage(schema)

	pos := warehouse.FactoryNewComponent[position]()
	vel := warehouse.FactoryNewComponent[velocity]()

	if _, err := storage.NewEntities(n, pos); err != nil {
		return fmt.Errorf("creating position-only entities: %w", err)
	}
	if _, err := storage.NewEntities(n/2, pos, vel); err != nil {
		return fmt.Errorf("creating position+velocity entities: %w", err)
	}

	query := warehouse.Factory.NewQuery()
	moving := query.And(pos, vel)
	cursor := warehouse.Factory.NewCursor(moving, storage)

	updated := 0
	for cursor.Next() {
		entity, err := cursor.CurrentEntity()
		if err != nil {
			return fmt.Errorf("reading cursor entity: %w", err)
		}
		p := pos.GetFromEntity(entity)
		v := vel.GetFromEntity(entity)
		p.X += v.X
		p.Y += v.Y
		updated++
	}

	recorder.Observe(storage)
	log.WithFields(log.Fields{
		"archetypes": len(storage.Archetypes()),
		"updated":    updated,
	}).Info("archdemo: query pass complete")

	fmt.Printf("created %d position-only and %d position+velocity entities\n", n, n/2)
	fmt.Printf("advanced %d moving entities by one tick\n", updated)
	return nil
}
