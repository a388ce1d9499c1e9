package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/avast/axmldecode"
)

func main() {
	isApk := flag.Bool("a", false, "The input file is an apk")
	resolveToValue := flag.Bool("resolve", false, "Resolve references to their terminal value instead of @type/key form")
	mapAttrs := flag.Bool("humanize", false, "Expand known int-valued attributes (screenOrientation, configChanges, ...) into their symbolic names")
	locale := flag.String("locale", "", "Preferred locale (lang or lang-COUNTRY) when selecting a resource candidate")

	flag.Parse()

	if len(flag.Args()) != 1 {
		fmt.Printf("%s INPUT\n", os.Args[0])
		os.Exit(1)
	}

	input := flag.Args()[0]
	if strings.HasSuffix(input, ".apk") {
		*isApk = true
	}

	cfg := axmldecode.Config{
		ResolveToValue:        *resolveToValue,
		AttributeValueMapping: *mapAttrs,
		Locale:                *locale,
	}

	var xml string
	var err error

	switch {
	case input == "-":
		data, readErr := ioutil.ReadAll(os.Stdin)
		if readErr != nil {
			fmt.Fprintln(os.Stderr, readErr)
			os.Exit(1)
		}
		xml, err = axmldecode.DecodeManifest(data, nil, cfg)
	case *isApk:
		var zipErr, resourcesErr error
		xml, zipErr, resourcesErr, err = axmldecode.DecodeApk(input, cfg)
		if zipErr != nil {
			fmt.Fprintln(os.Stderr, zipErr)
			os.Exit(1)
		}
		if resourcesErr != nil {
			fmt.Fprintln(os.Stderr, "warning: resources.arsc not resolved:", resourcesErr)
		}
	default:
		data, readErr := ioutil.ReadFile(input)
		if readErr != nil {
			fmt.Fprintln(os.Stderr, readErr)
			os.Exit(1)
		}
		xml, err = axmldecode.DecodeManifest(data, nil, cfg)
	}

	fmt.Print(xml)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
