package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/defensoria/expedientes/internal/app"
	"github.com/defensoria/expedientes/internal/domain"
)

func newExpedientCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expediente",
		Aliases: []string{"exp"},
		Short:   "Manage expedientes",
	}

	var create app.CreateExpedientInput
	crear := &cobra.Command{
		Use:   "crear",
		Short: "Create a draft expedient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				exp, err := env.svc.CreateExpedient(cmd.Context(), create)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), exp)
			})
		},
	}
	crear.Flags().StringVar(&create.Title, "titulo", "", "expedient title")
	crear.Flags().StringVar(&create.AssignedOffice, "oficina", "", "assigned office")
	crear.Flags().StringVar(&create.Reference, "referencia", "", "court reference")
	crear.Flags().StringVar(&create.ProcessType, "tipo", "", "process type")
	_ = crear.MarkFlagRequired("titulo")

	var update app.UpdateExpedientInput
	editar := &cobra.Command{
		Use:   "editar <id>",
		Short: "Edit a draft expedient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				current, err := env.svc.GetExpedient(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				in := app.UpdateExpedientInput{
					ID:             current.ID,
					Title:          flagOr(flags, "titulo", update.Title, current.Title),
					AssignedOffice: flagOr(flags, "oficina", update.AssignedOffice, current.AssignedOffice),
					Reference:      flagOr(flags, "referencia", update.Reference, current.Reference),
					ProcessType:    flagOr(flags, "tipo", update.ProcessType, current.ProcessType),
				}
				exp, err := env.svc.UpdateExpedient(cmd.Context(), in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), exp)
			})
		},
	}
	editar.Flags().StringVar(&update.Title, "titulo", "", "expedient title")
	editar.Flags().StringVar(&update.AssignedOffice, "oficina", "", "assigned office")
	editar.Flags().StringVar(&update.Reference, "referencia", "", "court reference")
	editar.Flags().StringVar(&update.ProcessType, "tipo", "", "process type")

	var filter struct {
		status, office, query string
	}
	listar := &cobra.Command{
		Use:   "listar",
		Short: "List expedientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := app.ExpedientFilter{Office: filter.office, Query: filter.query}
			if filter.status != "" {
				status, err := domain.ParseExpedientStatus(filter.status)
				if err != nil {
					return err
				}
				f.Statuses = []domain.ExpedientStatus{status}
			}
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				items, err := env.svc.ListExpedients(cmd.Context(), f)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(items))
				for _, e := range items {
					rows = append(rows, []string{strconv.Itoa(e.Number), e.ID, string(e.Status), dash(e.AssignedOffice), e.Title})
				}
				return renderTable(cmd.OutOrStdout(), []string{"NUM", "ID", "ESTADO", "OFICINA", "TITULO"}, rows)
			})
		},
	}
	listar.Flags().StringVar(&filter.status, "estado", "", "filter by status")
	listar.Flags().StringVar(&filter.office, "oficina", "", "filter by office")
	listar.Flags().StringVar(&filter.query, "buscar", "", "match title, reference, office, process type or exact number")

	ver := &cobra.Command{
		Use:   "ver <id>",
		Short: "Show one expedient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				exp, err := env.svc.GetExpedient(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), exp)
			})
		},
	}

	var actor, reason string
	derivar := &cobra.Command{
		Use:   "derivar <id>",
		Short: "Derive a draft expedient to its office",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				exp, err := env.svc.DeriveExpedient(cmd.Context(), args[0], actor, reason)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), exp)
			})
		},
	}
	derivar.Flags().StringVar(&actor, "actor", "", "operator deriving the expedient (defaults to identity.current_user)")
	derivar.Flags().StringVar(&reason, "motivo", "", "derivation note")

	estado := &cobra.Command{
		Use:   "estado <id> <estado>",
		Short: "Move an expedient to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := domain.ParseExpedientStatus(args[1])
			if err != nil {
				return err
			}
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				exp, err := env.svc.SetExpedientStatus(cmd.Context(), args[0], to, actor, reason)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), exp)
			})
		},
	}
	estado.Flags().StringVar(&actor, "actor", "", "operator changing the status")
	estado.Flags().StringVar(&reason, "motivo", "", "reason recorded with the change")

	recibir := &cobra.Command{
		Use:   "recibir <id>",
		Short: "Record reception of a derived expedient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				exp, err := env.svc.ReceiveExpedient(cmd.Context(), args[0], actor)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), exp)
			})
		},
	}
	recibir.Flags().StringVar(&actor, "actor", "", "operator receiving the expedient")

	cmd.AddCommand(crear, editar, listar, ver, derivar, estado, recibir)
	return cmd
}

func newActuacionCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "actuacion",
		Aliases: []string{"act"},
		Short:   "Manage actuaciones and their signing lifecycle",
	}

	var create struct {
		expedient, title, content, kind, author string
	}
	crear := &cobra.Command{
		Use:   "crear",
		Short: "Create a borrador actuacion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := domain.ParseActuacionType(create.kind)
			if err != nil {
				return err
			}
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				act, err := env.svc.CreateActuacion(cmd.Context(), app.CreateActuacionInput{
					ExpedientID: create.expedient,
					Title:       create.title,
					Content:     create.content,
					Type:        kind,
					CreatedBy:   create.author,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), act)
			})
		},
	}
	crear.Flags().StringVar(&create.expedient, "expediente", "", "owning expedient id")
	crear.Flags().StringVar(&create.title, "titulo", "", "actuacion title")
	crear.Flags().StringVar(&create.content, "contenido", "", "actuacion body")
	crear.Flags().StringVar(&create.kind, "tipo", string(domain.ActuacionProvidencia), "actuacion type")
	crear.Flags().StringVar(&create.author, "autor", "", "author (defaults to identity.current_user)")
	_ = crear.MarkFlagRequired("expediente")
	_ = crear.MarkFlagRequired("titulo")

	var filter struct {
		expedient, status, kind, sortBy string
		desc                            bool
	}
	listar := &cobra.Command{
		Use:   "listar",
		Short: "List actuaciones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := app.ActuacionFilter{ExpedientID: filter.expedient, Descending: filter.desc}
			if filter.status != "" {
				status, err := domain.ParseActuacionStatus(filter.status)
				if err != nil {
					return err
				}
				f.Estados = []domain.ActuacionStatus{status}
			}
			if filter.kind != "" {
				kind, err := domain.ParseActuacionType(filter.kind)
				if err != nil {
					return err
				}
				f.Tipo = kind
			}
			sortBy, err := app.ParseActuacionSortField(filter.sortBy)
			if err != nil {
				return err
			}
			f.SortBy = sortBy
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				items, err := env.svc.ListActuaciones(cmd.Context(), f)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(items))
				for _, a := range items {
					rows = append(rows, []string{
						strconv.Itoa(a.Number), a.ID, a.ExpedientID, string(a.Type), string(a.Status), formatTime(a.SignedAt), a.Title,
					})
				}
				return renderTable(cmd.OutOrStdout(), []string{"NUM", "ID", "EXPEDIENTE", "TIPO", "ESTADO", "FIRMADO", "TITULO"}, rows)
			})
		},
	}
	listar.Flags().StringVar(&filter.expedient, "expediente", "", "filter by expedient id")
	listar.Flags().StringVar(&filter.status, "estado", "", "filter by status")
	listar.Flags().StringVar(&filter.kind, "tipo", "", "filter by type")
	listar.Flags().StringVar(&filter.sortBy, "orden", "", "sort field (number, createdAt, title)")
	listar.Flags().BoolVar(&filter.desc, "desc", false, "sort descending")

	enviar := &cobra.Command{
		Use:   "enviar <id>",
		Short: "Send a borrador actuacion to sign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				act, err := env.svc.SendActuacionToSign(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), act)
			})
		},
	}

	var signer string
	firmar := &cobra.Command{
		Use:   "firmar <id>",
		Short: "Sign an actuacion waiting for signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				act, err := env.svc.SignActuacion(cmd.Context(), args[0], signer)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), act)
			})
		},
	}
	firmar.Flags().StringVar(&signer, "firmante", "", "signer (defaults to identity.current_user)")

	revertir := &cobra.Command{
		Use:   "revertir <id>",
		Short: "Revert a signature inside the reversal window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				act, err := env.svc.RevertActuacionSignature(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), act)
			})
		},
	}

	eliminar := &cobra.Command{
		Use:   "eliminar <id>",
		Short: "Delete an unsigned actuacion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				if err := env.svc.DeleteActuacion(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(crear, listar, enviar, firmar, revertir, eliminar)
	return cmd
}

func newTramiteCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tramite",
		Short: "Manage tramites",
	}

	var create app.CreateTramiteInput
	crear := &cobra.Command{
		Use:   "crear",
		Short: "Open a tramite on an expedient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				tr, err := env.svc.CreateTramite(cmd.Context(), create)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), tr)
			})
		},
	}
	crear.Flags().StringVar(&create.ExpedientID, "expediente", "", "owning expedient id")
	crear.Flags().StringVar(&create.Title, "titulo", "", "tramite title")
	crear.Flags().StringVar(&create.Description, "descripcion", "", "tramite description")
	crear.Flags().StringVar(&create.CreatedBy, "autor", "", "author (defaults to identity.current_user)")
	_ = crear.MarkFlagRequired("expediente")
	_ = crear.MarkFlagRequired("titulo")

	finalizar := &cobra.Command{
		Use:   "finalizar <id>",
		Short: "Finalize an open tramite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				tr, err := env.svc.FinalizeTramite(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), tr)
			})
		},
	}

	listar := &cobra.Command{
		Use:   "listar <expediente>",
		Short: "List the tramites of one expedient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				items, err := env.svc.ListTramites(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(items))
				for _, tr := range items {
					rows = append(rows, []string{tr.ID, tr.CreatedAt.Format(time.DateOnly), formatTime(tr.FinalizadoAt), tr.Title})
				}
				return renderTable(cmd.OutOrStdout(), []string{"ID", "CREADO", "FINALIZADO", "TITULO"}, rows)
			})
		},
	}

	cmd.AddCommand(crear, finalizar, listar)
	return cmd
}

func newNotificationsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notificaciones",
		Short: "Read the actuacion notification feed",
	}

	listar := &cobra.Command{
		Use:   "listar",
		Short: "List recent notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				items, err := env.svc.ListNotifications(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(items))
				for _, n := range items {
					rows = append(rows, []string{n.ID, strconv.FormatBool(n.Read), fmt.Sprintf("%s -> %s", n.OldStatus, n.NewStatus), n.Title})
				}
				return renderTable(cmd.OutOrStdout(), []string{"ID", "LEIDA", "CAMBIO", "ACTUACION"}, rows)
			})
		},
	}

	var all bool
	leer := &cobra.Command{
		Use:   "leer [id]",
		Short: "Mark one notification, or all with --todas, as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("notification id or --todas is required")
			}
			return opts.withEnv(cmd, func(env *runtimeEnv) error {
				if all {
					return env.svc.MarkAllNotificationsRead(cmd.Context())
				}
				return env.svc.MarkNotificationRead(cmd.Context(), args[0])
			})
		},
	}
	leer.Flags().BoolVar(&all, "todas", false, "mark every notification as read")

	cmd.AddCommand(listar, leer)
	return cmd
}

func printJSON(w io.Writer, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", encoded)
	return err
}

// renderTable writes one bordered table with a bold header row.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// flagOr returns value when the named flag was passed, even if empty, and fallback otherwise.
func flagOr(flags *pflag.FlagSet, name, value, fallback string) string {
	if flags.Changed(name) {
		return value
	}
	return fallback
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateTime)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
