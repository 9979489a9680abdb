package auth

import (
	"fmt"
	"strings"
)

// ShowTokenGuide displays step-by-step instructions for creating an api token
func ShowTokenGuide() {
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("🔑 IMGCHEST API TOKEN GUIDE")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println()

	fmt.Println("Authenticated commands need a personal api token.")
	fmt.Println("Creating one takes less than a minute:")
	fmt.Println()

	fmt.Println("STEP 1: Log in")
	fmt.Println("   - Go to https://imgchest.com and sign in to your account")
	fmt.Println()

	fmt.Println("STEP 2: Open your profile settings")
	fmt.Println("   - Click your avatar in the top right")
	fmt.Println("   - Choose 'Settings'")
	fmt.Println()

	fmt.Println("STEP 3: Create the token")
	fmt.Println("   - Open the 'API' section")
	fmt.Println("   - Click 'Create Token' and copy the value shown")
	fmt.Println()

	fmt.Println("STEP 4: Save it here")
	fmt.Println("   - Run: imgchest auth login")
	fmt.Println("   - Paste the token when prompted (input stays hidden)")
	fmt.Println()

	fmt.Println("💡 TIPS:")
	fmt.Println("   • For CI or one-off runs, set IMGCHEST_TOKEN instead")
	fmt.Println("   • Multiple accounts: imgchest auth login --account work")
	fmt.Println()

	fmt.Println("⚠️  The token gives full access to your account. This tool")
	fmt.Println("   stores it in the system keychain, or encrypted on disk when")
	fmt.Println("   no keychain is available. Never commit it anywhere.")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println()
}

// ShowQuickTokenGuide shows a condensed version for experienced users
func ShowQuickTokenGuide() {
	fmt.Println("\n🔑 Quick guide: imgchest.com → Settings → API → Create Token, then run 'imgchest auth login'")
	fmt.Println("   Or set the IMGCHEST_TOKEN environment variable")
}
