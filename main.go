package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/road"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/task"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/config"
	"gopkg.in/yaml.v2"
)

var (
	// 模拟任务名
	job string
	// 配置文件路径
	configPath string
	// 配置文件Base64编码后的数据
	configData string

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel string

	log = logrus.WithField("module", "gridtraffic")
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gridtraffic",
		Short:         "Grid road traffic simulation with signals and autonomous vehicles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logrus.SetFormatter(&easy.Formatter{
				TimestampFormat: "2006-01-02 15:04:05.0000",
				LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
			})
			// log: 运行时才修改
			level, ok := logLevels[logLevel]
			if !ok {
				return fmt.Errorf("log.level must be one of %v", logLevels)
			}
			logrus.SetLevel(level)
			return nil
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&job, "job", "job0", "the name of the simulation task")
	flags.StringVar(&configPath, "config", "", "config file path")
	flags.StringVar(&configData, "config-data", "", "config file base64 encoded data")
	flags.StringVar(&logLevel, "log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(routeCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation until the configured end step",
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			log.Infof("%+v", c)
			t, err := task.NewContext(job, c, nil)
			if err != nil {
				return err
			}
			return t.Run()
		},
	}
	cmd.Flags().Int32Var(&task.HeartbeatInterval, "log.heartbeat_interval", 100, "心跳日志间隔步数")
	return cmd
}

func routeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route [from-x] [from-y] [to-x] [to-y]",
		Short: "Build the grid and print the planned route between two points",
		Args:  cobra.ExactArgs(4),
		RunE: func(_ *cobra.Command, args []string) error {
			coords := make([]float64, len(args))
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("invalid coordinate %q: %w", a, err)
				}
				coords[i] = v
			}
			c, err := loadConfig()
			if err != nil {
				return err
			}
			rc := config.NewRuntimeConfig(c)
			g, err := road.BuildGrid(rc.All.Grid, rc.All.Signal)
			if err != nil {
				return err
			}
			points, err := g.PlanRoute(orb.Point{coords[0], coords[1]}, orb.Point{coords[2], coords[3]})
			if err != nil {
				return err
			}
			for _, p := range points {
				fmt.Printf("%.2f %.2f\n", p.X(), p.Y())
			}
			return nil
		},
	}
}

// loadConfig 从文件或Base64数据读取配置
func loadConfig() (config.Config, error) {
	var c config.Config
	var file []byte
	var err error
	if configPath != "" {
		file, err = os.ReadFile(configPath)
		if err != nil {
			return c, fmt.Errorf("config file load err: %w", err)
		}
	} else if configData != "" {
		file, err = base64.StdEncoding.DecodeString(configData)
		if err != nil {
			return c, fmt.Errorf("config data load err: %w", err)
		}
	} else {
		return c, fmt.Errorf("config file or config data must be specified")
	}
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		return c, fmt.Errorf("config file load err: %w", err)
	}
	return c, nil
}
